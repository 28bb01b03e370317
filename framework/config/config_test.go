package config_test

import (
	"testing"

	"github.com/km-arc/go-spring/framework/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoSpring"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Kernel.LogLevel", cfg.Kernel.LogLevel, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if !cfg.Kernel.EagerInit {
		t.Error("Kernel.EagerInit should default to true")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyKernel")
	t.Setenv("APP_ENV", "production")
	t.Setenv("KERNEL_EAGER_INIT", "false")
	t.Setenv("KERNEL_LOG_LEVEL", "debug")

	cfg := config.Load("testdata/empty.env")

	if cfg.App.Name != "MyKernel" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyKernel")
	}
	if cfg.App.Env != "production" {
		t.Errorf("App.Env: got %q want %q", cfg.App.Env, "production")
	}
	if cfg.Kernel.EagerInit {
		t.Error("Kernel.EagerInit should be false")
	}
	if cfg.Kernel.LogLevel != "debug" {
		t.Errorf("Kernel.LogLevel: got %q want %q", cfg.Kernel.LogLevel, "debug")
	}
}

func TestGet_Fallback(t *testing.T) {
	if got := config.Get("DOES_NOT_EXIST", "fallback"); got != "fallback" {
		t.Errorf("Get: got %q want %q", got, "fallback")
	}
	t.Setenv("SOME_KEY", "value")
	if got := config.Get("SOME_KEY", "fallback"); got != "value" {
		t.Errorf("Get: got %q want %q", got, "value")
	}
}

func TestGetBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("FLAG", "not-a-bool")
	if !config.GetBool("FLAG", true) {
		t.Error("invalid bool should fall back to default")
	}
}
