// Command packcrypt encrypts and decrypts resource packs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/packcrypt/internal/commands"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := commands.NewRootCommand(version).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
