package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// DEFAULT_APP_ENV selects config/envs/.env.dev when APP_ENV is unset.
const DEFAULT_APP_ENV = "dev"

// LoadEnv loads config/envs/.env.<env> into the process environment. Values
// already set in the environment win.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment", slog.String("file", envFile))
	}
}
