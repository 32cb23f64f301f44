package config

// Config represents the complete configuration structure
type Config struct {
	Dify    DifyConfig    `mapstructure:"dify"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DifyConfig holds Dify backend connection details. Email and password are
// optional; when set, the serve command logs in automatically at startup.
type DifyConfig struct {
	URL            string `mapstructure:"url"`
	Email          string `mapstructure:"email"`
	Password       string `mapstructure:"password"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ServerConfig holds the companion HTTP server settings
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
