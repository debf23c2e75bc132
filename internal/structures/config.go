package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Driver   string        `yaml:"driver" validate:"required|in:file,sqlite"`
	FilePath string        `yaml:"filePath" validate:"required|unixPath"`
	Debounce time.Duration `yaml:"debounce" validate:"required|min:1"`
	Compress bool          `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// RegistryConfig controls how long a game stays tracked after it was last observed.
type RegistryConfig struct {
	Cooldown time.Duration `yaml:"cooldown"`
}

type SchedulerConfig struct {
	Cron         string        `yaml:"cron" validate:"required"`
	InitialDelay time.Duration `yaml:"initialDelay"`
}

type SourceConfig struct {
	Name    string `yaml:"name"`
	Url     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type SourcesConfig struct {
	Timeout time.Duration  `yaml:"timeout" validate:"required|min:1"`
	Retries int            `yaml:"retries"`
	List    []SourceConfig `yaml:"list"`
}

type NotifyConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	DryRun  bool          `yaml:"dryRun"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Registry    RegistryConfig  `yaml:"registry"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Sources     SourcesConfig   `yaml:"sources"`
	Notify      NotifyConfig    `yaml:"notify"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
