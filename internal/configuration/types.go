package configuration

import (
	"time"

	"github.com/mitchellh/go-homedir"
)

type SimrigConfig struct {
	MetricsPort uint16 `validate:"required"`

	Runner   RunnerConfig
	Dispatch DispatchConfig
	Solver   SolverConfig
	Cache    CacheConfig
	Settings SettingsConfig
}

type RunnerConfig struct {
	// Total number of runs to execute, before weighting splits them
	// across datasources.
	Runs     int `validate:"gte=0"`
	Weighted bool
	// Datasource applied to every job in uniform mode; ignored in
	// weighted mode, where datasources come from the weight table.
	Datasource string
}

type DispatchConfig struct {
	// Upper bound on concurrently running jobs.
	Parallelism int `validate:"gte=1"`
	// How often a running batch logs completed/total counts.
	// Zero disables progress logging.
	ProgressInterval time.Duration
}

type SolverConfig struct {
	// Command started once per job, receiving the job specification as
	// JSON on stdin.
	Command    string `validate:"required"`
	Args       []string
	WorkingDir string
}

type CacheConfig struct {
	// Path of the cache store file. Supports ~ expansion.
	Path string `validate:"required"`
	// Entries younger than TTL are served without refetching.
	TTL time.Duration `validate:"gt=0"`
}

type SettingsConfig struct {
	// Directory holding comprehensive_settings.json and user_settings.json.
	Dir string `validate:"required"`
	// Optional semicolon-separated list of extra settings files merged on
	// top, later files winning.
	Files string
}

// ExpandedPath returns Path with a leading ~ expanded to the home directory.
func (c CacheConfig) ExpandedPath() (string, error) {
	return homedir.Expand(c.Path)
}
