// Command smart-email-generator turns an email subject into a complete email
// using a hosted language model.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// fang prints the error itself.
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
