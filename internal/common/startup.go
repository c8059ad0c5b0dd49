package common

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "SIMRIG"

// LoadConfig reads config.yaml from defaultPath, merges an optional override
// file on top of it, applies SIMRIG_* environment variables, and unmarshals
// the result into config. Configuration failures are fatal.
func LoadConfig(config interface{}, defaultPath string, overridePath string, opts ...viper.DecoderConfigOption) {
	viper.SetConfigName("config")
	viper.AddConfigPath(defaultPath)
	if err := viper.ReadInConfig(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
	if overridePath != "" {
		viper.SetConfigFile(overridePath)
		if err := viper.MergeInConfig(); err != nil {
			log.Error(err)
			os.Exit(-1)
		}
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.Unmarshal(config, opts...); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
	if level, err := log.ParseLevel(os.Getenv(envPrefix + "_LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
}
