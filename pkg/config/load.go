// Package config предоставляет функциональность для загрузки конфигурации из переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// EnvFileVariable задает путь к необязательному .env файлу.
const EnvFileVariable = "CONFIG_ENV_FILE"

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"

	errFailedLoadConfiguration = "failed to load configuration"
	errFailedStatEnvFile       = "failed to stat env file"

	attrService = "service"
	attrPath    = "path"
)

// Load заполняет структуру T из переменных окружения.
// Если задан CONFIG_ENV_FILE и файл существует, значения сначала читаются из него,
// переменные окружения при этом имеют приоритет.
func Load[T any](ctx context.Context, serviceName string) (*T, error) {
	log := logger.Log(ctx)

	envPath := os.Getenv(EnvFileVariable)

	log.Info(ctx, msgLoadingConfiguration,
		zap.String(attrService, serviceName),
		zap.String(attrPath, envPath))

	var cfg T

	var err error
	if envPath != "" {
		if _, statErr := os.Stat(envPath); statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", errFailedStatEnvFile, statErr)
		} else if statErr == nil {
			err = cleanenv.ReadConfig(envPath, &cfg)
		} else {
			err = cleanenv.ReadEnv(&cfg)
		}
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}

	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration,
			zap.String(attrService, serviceName),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded,
		zap.String(attrService, serviceName))

	return &cfg, nil
}
