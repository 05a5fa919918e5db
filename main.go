package main

import (
	"github.com/joho/godotenv"

	"github.com/teemow/inboxlabeler/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	// Environment from a local .env file, when present, for OAuth client and API keys
	_ = godotenv.Load()

	// Set the version from build-time variable
	cmd.SetVersion(version)

	// Execute the root command
	cmd.Execute()
}
