package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simrigproject/simrig/internal/common"
	"github.com/simrigproject/simrig/internal/configuration"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "simrig command",
	Short: "simrig runs batches of simulation jobs",
	Long: `
simrig runs batches of independent simulation jobs across a bounded worker
pool. The total run count can be split across weighted datasources, and a
read-through cache keeps external JSON data close by.

Configuration is read from config/simrig/config.yaml; a file passed with
--config is merged on top, and SIMRIG_* environment variables override both.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "extra configuration file merged over the defaults")
}

func loadConfig() configuration.SimrigConfig {
	var config configuration.SimrigConfig
	common.LoadConfig(&config, "./config/simrig", cfgFile, configuration.CustomHooks...)
	if err := configuration.Validate(config); err != nil {
		os.Exit(-1)
	}
	return config
}
