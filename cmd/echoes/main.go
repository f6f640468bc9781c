package main

import (
	"github.com/joho/godotenv"

	"github.com/echoes-os/echoes/internal/cli"
)

// version, commit, date are injected by the linker via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// A local .env is convenient for API keys during development;
	// a missing file is fine.
	_ = godotenv.Load()

	cli.Execute(version, commit, date)
}
