package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"vehlog/internal/structures"

	"github.com/spf13/viper"
)

const (
	DefaultSnapshotCapacity = 10
	defaultCacheTTL         = 5 * time.Minute
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("snapshots.capacity", DefaultSnapshotCapacity)
	v.SetDefault("export.separator", ",")
	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.maintenanceInterval", "10m")
	v.SetDefault("persistence.compression", "better")
	v.SetDefault("cache.ttl", defaultCacheTTL.String())

	v.BindEnv("logger.level", "VEHLOG_LOG_LEVEL")
	v.BindEnv("snapshots.capacity", "VEHLOG_SNAPSHOT_CAPACITY")
	v.BindEnv("persistence.driver", "VEHLOG_PERSISTENCE_DRIVER")
	v.BindEnv("persistence.path", "VEHLOG_PERSISTENCE_PATH")
	v.BindEnv("persistence.compression", "VEHLOG_PERSISTENCE_COMPRESSION")
	v.BindEnv("cache.enabled", "VEHLOG_CACHE_ENABLED")
	v.BindEnv("cache.size", "VEHLOG_CACHE_SIZE")

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

	conf.AppName = "VehicleLogService"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
