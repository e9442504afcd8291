package main

import (
	"github.com/joho/godotenv"

	"github.com/groundworkusa/trust-events/internal/cli"
)

func main() {
	// Optional .env for local runs; CI supplies the real environment.
	_ = godotenv.Load()

	cli.Execute()
}
