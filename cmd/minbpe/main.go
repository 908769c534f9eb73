// Package main provides the minbpe CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/born-ml/minbpe/internal/envconfig"
	"github.com/born-ml/minbpe/internal/logutil"
)

const version = "v0.0.1-dev"

func main() {
	logger := logutil.NewLogger(os.Stderr, envconfig.LogLevel())
	if err := NewCLI(logger).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
