package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8082",
		BackendBaseURL: "http://localhost:8000/api/",
		BackendTimeout: 10 * time.Second,
		SessionDBPath:  "./test.db",
		AlertSink:      "log",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{"valid", func(c *Config) {}, ""},
		{
			"non-numeric port",
			func(c *Config) { c.Port = "abc" },
			"invalid port 'abc': must be a number",
		},
		{
			"port out of range",
			func(c *Config) { c.Port = "70000" },
			"invalid port 70000: must be between 1 and 65535",
		},
		{
			"empty backend URL",
			func(c *Config) { c.BackendBaseURL = "" },
			"backend base URL cannot be empty",
		},
		{
			"bad backend scheme",
			func(c *Config) { c.BackendBaseURL = "ftp://host/api/" },
			"invalid backend base URL scheme 'ftp'",
		},
		{
			"timeout too short",
			func(c *Config) { c.BackendTimeout = 100 * time.Millisecond },
			"must be at least 1 second",
		},
		{
			"empty session path",
			func(c *Config) { c.SessionDBPath = "" },
			"session database path cannot be empty",
		},
		{
			"bad AMQP scheme",
			func(c *Config) { c.AMQPURL = "http://localhost:5672/" },
			"invalid AMQP URL scheme 'http'",
		},
		{
			"AMQP without queue",
			func(c *Config) { c.AMQPURL = "amqp://localhost:5672/"; c.AMQPExchange = "x"; c.AMQPQueue = "" },
			"AMQP queue name cannot be empty",
		},
		{
			"unknown alert sink",
			func(c *Config) { c.AlertSink = "kafka" },
			"invalid alert sink 'kafka'",
		},
		{
			"sheets sink without spreadsheet",
			func(c *Config) { c.AlertSink = "sheets"; c.GoogleSheetName = "Alerts"; c.GoogleOAuthClientJSON = "{}"; c.GoogleOAuthTokenJSON = "{}" },
			"Google Spreadsheet ID is required",
		},
		{
			"sheets sink without oauth client",
			func(c *Config) {
				c.AlertSink = "sheets"
				c.GoogleSpreadsheetID = "abc"
				c.GoogleSheetName = "Alerts"
				c.GoogleOAuthTokenJSON = "{}"
			},
			"either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errorString)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "BACKEND_BASE_URL", "BACKEND_TIMEOUT",
		"SESSION_DB_PATH", "AMQP_URL", "ALERT_SINK",
	}
	original := map[string]string{}
	for _, k := range keys {
		original[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range original {
			if v != "" {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()
		if cfg.Port != "8082" {
			t.Errorf("Port = %v, want 8082", cfg.Port)
		}
		if cfg.BackendBaseURL != "http://localhost:8000/api/" {
			t.Errorf("BackendBaseURL = %v", cfg.BackendBaseURL)
		}
		if cfg.BackendTimeout != 10*time.Second {
			t.Errorf("BackendTimeout = %v, want 10s", cfg.BackendTimeout)
		}
		if cfg.AlertSink != "log" {
			t.Errorf("AlertSink = %v, want log", cfg.AlertSink)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("BACKEND_BASE_URL", "https://budget.example.com/api/")
		os.Setenv("BACKEND_TIMEOUT", "5s")
		os.Setenv("ALERT_SINK", "sheets")

		cfg := Load()
		if cfg.Port != "9090" {
			t.Errorf("Port = %v, want 9090", cfg.Port)
		}
		if cfg.BackendBaseURL != "https://budget.example.com/api/" {
			t.Errorf("BackendBaseURL = %v", cfg.BackendBaseURL)
		}
		if cfg.BackendTimeout != 5*time.Second {
			t.Errorf("BackendTimeout = %v, want 5s", cfg.BackendTimeout)
		}
		if cfg.AlertSink != "sheets" {
			t.Errorf("AlertSink = %v, want sheets", cfg.AlertSink)
		}
	})

	t.Run("invalid duration uses default", func(t *testing.T) {
		os.Setenv("BACKEND_TIMEOUT", "soon")
		cfg := Load()
		if cfg.BackendTimeout != 10*time.Second {
			t.Errorf("BackendTimeout = %v, want 10s default", cfg.BackendTimeout)
		}
	})
}
