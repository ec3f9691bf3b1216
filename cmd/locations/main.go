// Command locations is the operator CLI for the location lookups.
package main

import (
	"context"
	"os"
	"os/signal"

	"casedesk/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.Execute(ctx)
}
