package main

import (
	"os"

	"github.com/spacesedan/firebird/config"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = config.DEFAULT_APP_ENV
	}
	config.LoadEnv(env)

	Execute()
}
