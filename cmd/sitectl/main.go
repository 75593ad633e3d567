// Command sitectl edits the site content from a terminal, talking to the
// persistence service over HTTP.
package main

import (
	"os"

	"github.com/ristorante/site/internal/cli"
	"github.com/ristorante/site/pkg/logger"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger.Init(level)
	cli.Execute()
}
