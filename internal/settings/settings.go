// Package settings loads the JSON run-time settings consumed by the runner:
// datasource weights, runtime options, and sweep options.
package settings

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/simrigproject/simrig/internal/common/simrigerrors"
	"github.com/simrigproject/simrig/internal/planner"
)

const (
	ComprehensiveFile = "comprehensive_settings.json"
	UserFile          = "user_settings.json"

	weightsKey        = "datasource_weights"
	runtimeOptionsKey = "runtime_options"
	sweepOptionsKey   = "sweep_options"
)

// Settings is a merged run-time settings object. Top-level values are kept
// raw so callers can decode them on demand, with key order preserved where
// it matters.
type Settings map[string]json.RawMessage

// Load reads the comprehensive settings and the user settings from dir and
// merges them, user values winning wholesale per top-level key. Both files
// are required.
func Load(dir string) (Settings, error) {
	comprehensive, err := loadFile(filepath.Join(dir, ComprehensiveFile))
	if err != nil {
		return nil, err
	}
	user, err := loadFile(filepath.Join(dir, UserFile))
	if err != nil {
		return nil, err
	}
	return Merge(comprehensive, user), nil
}

// LoadFiles reads a semicolon separated list of settings files and merges
// them left to right, later files winning. Files that are missing or
// unparsable are skipped with a warning rather than failing the run.
func LoadFiles(paths string) Settings {
	merged := Settings{}
	for _, path := range strings.Split(paths, ";") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		s, err := loadFile(path)
		if err != nil {
			log.WithError(err).Warnf("skipping settings file %s", path)
			continue
		}
		merged = Merge(merged, s)
	}
	return merged
}

// Merge combines two settings objects, override winning wholesale on each
// top-level key.
func Merge(base, override Settings) Settings {
	merged := make(Settings, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range override {
		merged[key] = value
	}
	return merged
}

func loadFile(path string) (Settings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	s := Settings{}
	if err := json.Unmarshal(content, &s); err != nil {
		return nil, errors.Wrapf(err, "settings file %s is not a JSON object", path)
	}
	return s, nil
}

// Bool returns the named boolean value and whether it was present and
// boolean.
func (s Settings) Bool(key string) (bool, bool) {
	raw, ok := s[key]
	if !ok {
		return false, false
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, false
	}
	return value, true
}

// String returns the named string value and whether it was present and a
// string.
func (s Settings) String(key string) (string, bool) {
	raw, ok := s[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// RuntimeOptions returns the options merged verbatim into every job spec.
// A missing key yields an empty map.
func (s Settings) RuntimeOptions() (map[string]interface{}, error) {
	raw, ok := s[runtimeOptionsKey]
	if !ok {
		return map[string]interface{}{}, nil
	}
	options := map[string]interface{}{}
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    runtimeOptionsKey,
			Value:   string(raw),
			Message: "expected a JSON object",
		})
	}
	return options, nil
}

// SweepOptions returns the candidate value lists for sweep mode and whether
// the key was present.
func (s Settings) SweepOptions() (map[string][]interface{}, bool, error) {
	raw, ok := s[sweepOptionsKey]
	if !ok {
		return nil, false, nil
	}
	lists := map[string][]interface{}{}
	if err := json.Unmarshal(raw, &lists); err != nil {
		return nil, true, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    sweepOptionsKey,
			Value:   string(raw),
			Message: "expected a JSON object of value lists",
		})
	}
	return lists, true, nil
}

// DatasourceWeights extracts the weight table in the order the settings
// file lists the datasources. Decoding through a map would lose that order,
// so the raw object is walked token by token.
func (s Settings) DatasourceWeights() (planner.WeightTable, error) {
	raw, ok := s[weightsKey]
	if !ok {
		return nil, errors.WithStack(&simrigerrors.ErrNotFound{
			Type:  "settings key",
			Value: weightsKey,
		})
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    weightsKey,
			Value:   string(raw),
			Message: "expected a JSON object of datasource weights",
		})
	}

	table := planner.WeightTable{}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		name := token.(string)

		token, err = decoder.Token()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		number, ok := token.(json.Number)
		if !ok {
			return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
				Name:    weightsKey,
				Value:   token,
				Message: "weight of datasource " + name + " must be a number",
			})
		}
		weight, err := number.Float64()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		table = append(table, planner.SourceWeight{Source: name, Weight: weight})
	}
	return table, nil
}
