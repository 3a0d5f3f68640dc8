package config

// CLIConfig contains command line configuration options
type CLIConfig struct {
	Port        string
	Bind        string
	Debug       bool
	ConfigCheck bool
	Help        bool
}
