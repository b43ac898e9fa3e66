package metrics

import "time"

// Config is the metrics section of the service configuration.
type Config struct {
	Enabled           bool          `mapstructure:"enabled"`
	Path              string        `mapstructure:"path"`
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	HttpTimeout       time.Duration `mapstructure:"http_timeout"`
	HttpHeaderTimeout time.Duration `mapstructure:"http_header_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		Path:              defaultPath,
		Port:              defaultPort,
		HttpTimeout:       defaultReadTimeout,
		HttpHeaderTimeout: defaultReadHeaderTimeout,
	}
}
