package config

import (
	"testing"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Dify: DifyConfig{
				URL:            "http://localhost:5001",
				TimeoutSeconds: 30,
			},
			Server: ServerConfig{
				ListenAddr: ":5000",
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing dify URL",
			mutate:  func(c *Config) { c.Dify.URL = "" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Dify.TimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "email without password",
			mutate:  func(c *Config) { c.Dify.Email = "admin@example.com" },
			wantErr: true,
		},
		{
			name: "email with password",
			mutate: func(c *Config) {
				c.Dify.Email = "admin@example.com"
				c.Dify.Password = "secret"
			},
			wantErr: false,
		},
		{
			name:    "missing listen addr",
			mutate:  func(c *Config) { c.Server.ListenAddr = "" },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
