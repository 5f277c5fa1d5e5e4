package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finance-dashboard/internal/cli"
	"finance-dashboard/internal/cli/output"
)

func main() {
	output.ResetProcessExitCode()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		code := output.CurrentProcessExitCode()
		if code > 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}

	code := output.CurrentProcessExitCode()
	if code > 0 {
		os.Exit(code)
	}
}
