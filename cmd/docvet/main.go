package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Local .env files hold provider credentials during development;
	// absence is not an error.
	_ = godotenv.Load()

	Execute()
}
