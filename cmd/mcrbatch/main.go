package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/citykit/mcrbatch/internal/cmd"
)

func main() {
	// Load .env if present; environment variables may be set directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
