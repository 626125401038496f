package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend" validate:"required|in:file,badger,sqlite,memory"`
	Path     string `yaml:"path"`
	Key      string `yaml:"key" validate:"required"`
	Compress bool   `yaml:"compress"`
}

type AutoSaveConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ProductConfig struct {
	ID         string `yaml:"id" mapstructure:"id"`
	LimitKind  string `yaml:"limitKind" mapstructure:"limitKind"`
	LimitCount int    `yaml:"limitCount" mapstructure:"limitCount"`
}

type StageConfig struct {
	ID          string   `yaml:"id" mapstructure:"id"`
	LimitKind   string   `yaml:"limitKind" mapstructure:"limitKind"`
	LimitCount  int      `yaml:"limitCount" mapstructure:"limitCount"`
	AllowedDays []string `yaml:"allowedDays" mapstructure:"allowedDays"`
}

type EventConfig struct {
	ID                  string    `yaml:"id" mapstructure:"id"`
	StartAt             time.Time `yaml:"startAt" mapstructure:"startAt"`
	EndAt               time.Time `yaml:"endAt" mapstructure:"endAt"`
	CurrencyID          string    `yaml:"currencyId" mapstructure:"currencyId"`
	GracePeriodDays     int       `yaml:"gracePeriodDays" mapstructure:"gracePeriodDays"`
	ConvertToCurrencyID string    `yaml:"convertToCurrencyId" mapstructure:"convertToCurrencyId"`
	ConversionRate      float64   `yaml:"conversionRate" mapstructure:"conversionRate"`
}

type CatalogConfig struct {
	Products []ProductConfig `yaml:"products"`
	Stages   []StageConfig   `yaml:"stages"`
	Events   []EventConfig   `yaml:"events"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Storage   StorageConfig  `yaml:"storage"`
	AutoSave  AutoSaveConfig `yaml:"autoSave"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Catalog   CatalogConfig  `yaml:"catalog"`
}
