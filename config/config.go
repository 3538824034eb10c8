package config

// Config contains all configuration grouped by domain
type Config struct {
	Paths   PathsConfig
	Logging LoggingConfig
}

// All config structs use string fields only - packages handle defaults during initialization
type PathsConfig struct {
	Root       string
	ConfigFile string
}

type LoggingConfig struct {
	Name string
	Dir  string
}
