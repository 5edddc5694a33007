package config

const (
	defaultStateDir        = "~/.local/share/spacedrive/state"
	defaultLogDir          = "~/.local/share/spacedrive/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultWorkers         = 4
	defaultJobPollInterval = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Identifier: Identifier{
			Workers: defaultWorkers,
		},
		Daemon: Daemon{
			JobPollInterval: defaultJobPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
