// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command testgen generates unit tests for PHP, JavaScript and TypeScript
// source files through the TestGen service.
//
// Usage:
//
//	testgen generate <file> [--output path] [--yes] [--verbose]
//	testgen login
//	testgen logout
//	testgen status
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"

	"github.com/testorix/testgen/pkg/ux"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	code := run(os.Args[1:])
	// Wipe any locked buffers (the login password) before exiting.
	memguard.Purge()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{Version: version}
	defer app.close()

	return execute(ctx, app, args)
}

// execute runs the command tree for app and renders any error left over.
func execute(ctx context.Context, app *App, args []string) int {
	root := newRootCmd(app)
	root.SetArgs(args)
	root.SetOut(ux.Stdout())
	root.SetErr(ux.Stderr())

	err := root.ExecuteContext(ctx)
	if needsRendering(err) {
		ux.Error(messageOf(err))
	}
	return ExitCodeOf(err)
}
