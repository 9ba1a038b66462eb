package config

// Config holds the runtime configuration.
type Config struct {
	Options *Options
}

// Clone returns a shallow copy of the config.
func (cfg *Config) Clone() *Config {
	return &Config{Options: cfg.Options}
}
