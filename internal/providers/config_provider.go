package providers

import (
	"fmt"
	"freegames/internal/structures"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.debounce", "5s")
	v.SetDefault("registry.cooldown", "24h")
	v.SetDefault("scheduler.cron", "0 */6 * * *")
	v.SetDefault("scheduler.initialDelay", "10s")
	v.SetDefault("sources.timeout", "30s")
	v.SetDefault("sources.retries", 2)
	v.SetDefault("notify.timeout", "10s")

	v.BindEnv("logger.level", "FGN_LOG_LEVEL")
	v.BindEnv("registry.cooldown", "FGN_COOLDOWN")
	v.BindEnv("scheduler.cron", "FGN_SCHEDULE")
	v.BindEnv("persistence.driver", "FGN_STORAGE_DRIVER")
	v.BindEnv("persistence.debounce", "FGN_DEBOUNCE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "FreeGamesNotifier"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
