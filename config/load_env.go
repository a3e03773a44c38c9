package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv pulls config/envs/.env.<env> into the process environment. A
// missing file is not an error; the OS environment is used as-is.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
