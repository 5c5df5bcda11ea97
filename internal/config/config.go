package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Scoring    ScoringConfig
	Simulation SimulationConfig
}

// ServerConfig defines the HTTP listener settings.
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig defines the storage backend settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// ScoringConfig defines the composite-score weighting. ICEBlend is the share
// of the normalized ICE score in combined mode.
type ScoringConfig struct {
	ROIWeight       float64 `mapstructure:"roi_weight"`
	CostWeight      float64 `mapstructure:"cost_weight"`
	CertaintyWeight float64 `mapstructure:"certainty_weight"`
	ICEBlend        float64 `mapstructure:"ice_blend"`
}

// SimulationConfig bounds simulation date ranges.
type SimulationConfig struct {
	DefaultDays int `mapstructure:"default_days"`
	MaxDays     int `mapstructure:"max_days"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults keep the service runnable
// with an in-memory sqlite store.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "file:floatplan.db?mode=memory&cache=shared")
	viper.SetDefault("database.max_conns", 10)
	viper.SetDefault("database.min_conns", 2)
	viper.SetDefault("scoring.roi_weight", 0.5)
	viper.SetDefault("scoring.cost_weight", 0.3)
	viper.SetDefault("scoring.certainty_weight", 0.2)
	viper.SetDefault("scoring.ice_blend", 0.5)
	viper.SetDefault("simulation.default_days", 90)
	viper.SetDefault("simulation.max_days", 365)

	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
