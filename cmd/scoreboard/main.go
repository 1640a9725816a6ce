package main

import (
	"os"

	"github.com/preston-bernstein/scoreboard-service/internal/cmd"
)

// appVersion is overridden at build time via -ldflags.
var appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SCOREBOARD_RUN") == "1" {
		return
	}
	if err := cmd.Execute(appVersion); err != nil {
		os.Exit(1)
	}
}
