// Package main is the entry point for the mimi virtual pet.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// A .env file may point MIMI_CONFIG or MIMI_DATA_DIR somewhere else.
	// Not fatal: the variables might be set directly, or not at all.
	_ = godotenv.Load()

	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
