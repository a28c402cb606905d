package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn     string        `mapstructure:"POSTGRES_CONN"`
	PostgresMaxConns int           `mapstructure:"POSTGRES_MAX_CONNS"`
	MigrationURL     string        `mapstructure:"MIGRATION_URL"`
	CloserInterval   time.Duration `mapstructure:"CLOSER_INTERVAL"`
}

// LoadConfig reads app.env from the given path; environment variables
// override file values.
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("POSTGRES_MAX_CONNS", 10)
	viper.SetDefault("MIGRATION_URL", "file://migrations")
	viper.SetDefault("CLOSER_INTERVAL", time.Minute)

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&cfg)
	return
}
