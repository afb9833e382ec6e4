// Command docstruct rebuilds readable documents from PDF extraction
// results.
//
// Usage:
//
//	docstruct convert structuredData.json --format markdown -o manual.md
//	docstruct outline result.zip
//	docstruct serve --addr :8080
//	docstruct watch structuredData.json -o manual.html
//	docstruct mcp
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
