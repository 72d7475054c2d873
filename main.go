/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trellis-data/statefs/internal/app"
)

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	cancellableCtx, cancelApp := context.WithCancel(context.Background())

	go func() {
		<-sigChan
		cancelApp()
	}()

	a := app.NewApp()
	if err := a.RunContext(cancellableCtx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "statefs exited with error: %v\n", err)
		os.Exit(1)
	}
}
