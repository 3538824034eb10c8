package config

import "os"

// Load reads configuration from environment variables as raw strings
// Components handle validation and defaults during initialization
func Load() *Config {
	return &Config{
		Paths: PathsConfig{
			Root:       os.Getenv("PARTSREC_ROOT"),
			ConfigFile: os.Getenv("PARTSREC_CONFIG_FILE"),
		},
		Logging: LoggingConfig{
			Name: os.Getenv("LOG_NAME"),
			Dir:  os.Getenv("LOG_DIR"),
		},
	}
}
