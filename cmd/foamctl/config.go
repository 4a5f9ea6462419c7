// Config loading for the foamctl CLI.
package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

const (
	configFileName = ".parafoam"
	configFileType = "yaml"

	// Config keys.
	cfgKeyRoot         = "root"
	cfgKeyBaseCase     = "base_case"
	cfgKeyJournal      = "journal"
	cfgKeyEpsilon      = "epsilon"
	cfgKeyWriteRetries = "write_retries"

	// defaultBaseCase is the conventional template directory name.
	defaultBaseCase = "baseCase"
)

// loadConfig reads the config file using Viper. With no explicit path it
// searches the working directory for .parafoam.yaml; a missing file is not
// an error then, only when --config names one.
func loadConfig(explicit string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBaseCase, defaultBaseCase)
	v.SetDefault(cfgKeyEpsilon, foam.DefaultEpsilon)
	v.SetDefault(cfgKeyWriteRetries, foam.DefaultWriteRetries)

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}
