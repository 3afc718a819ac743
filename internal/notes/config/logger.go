package config

import (
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"notekeeper/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development"`
}

// BootstrapLogging читает только настройки логирования, чтобы logger
// существовал до загрузки остальной конфигурации.
func BootstrapLogging() LoggingConfig {
	var cfg LoggingConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return LoggingConfig{Level: "info", Mode: string(logger.Development)}
	}
	return cfg
}

// GetEnvironment переводит режим в logger.Environment без учета регистра, "prod" считается синонимом.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	switch strings.ToLower(strings.TrimSpace(l.Mode)) {
	case "production", "prod":
		return logger.Production
	default:
		return logger.Development
	}
}

// NewLogger создает logger по этим настройкам.
func (l *LoggingConfig) NewLogger() (*logger.Logger, error) {
	return logger.NewLogger(l.GetEnvironment(), l.Level)
}
