package providers

import (
	"fmt"
	"path/filepath"
	"statekeeper/internal/structures"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const AppName = "StateKeeper"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.key", "player")
	v.SetDefault("storage.compress", true)
	v.SetDefault("autoSave.interval", 30*time.Second)

	v.BindEnv("logger.level", "STATEKEEPER_LOG_LEVEL")
	v.BindEnv("storage.backend", "STATEKEEPER_STORAGE_BACKEND")
	v.BindEnv("storage.path", "STATEKEEPER_STORAGE_PATH")
	v.BindEnv("autoSave.enabled", "STATEKEEPER_AUTOSAVE_ENABLED")
	v.BindEnv("autoSave.interval", "STATEKEEPER_AUTOSAVE_INTERVAL")
	v.BindEnv("cache.enabled", "STATEKEEPER_CACHE_ENABLED")
	v.BindEnv("cache.size", "STATEKEEPER_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
