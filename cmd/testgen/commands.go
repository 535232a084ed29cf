// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree around app.
func newRootCmd(app *App) *cobra.Command {
	var global globalOptions

	root := &cobra.Command{
		Use:   "testgen",
		Short: "AI-powered test generation CLI",
		Long: `testgen generates unit tests for PHP, JavaScript and TypeScript files.

It detects your project layout, framework and test framework, sends the file
with that context to the TestGen service, and writes the generated test next
to your existing tests.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			return app.setup(global)
		},
		// No subcommand: print help and exit 0.
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false,
		"Show diagnostic detail (detected project, imports, framework, timing, quota)")
	root.PersistentFlags().StringVar(&global.Personality, "personality", "",
		"Output style: full, standard, minimal or machine")

	root.AddCommand(
		newGenerateCmd(app, &global),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app, &global),
	)
	return root
}

func newGenerateCmd(app *App, global *globalOptions) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate unit tests for a file",
		Example: `  testgen generate src/services/user.ts
  testgen generate app/Models/Invoice.php --output tests/Unit/InvoiceTest.php
  testgen generate lib/math.js --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = global.Verbose
			return app.runGenerate(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the test to this path instead of the computed one")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Overwrite an existing test file without asking")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with your TestGen account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runLogin(cmd.Context())
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runLogout()
		},
	}
}

func newStatusCmd(app *App, global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your account usage and remaining quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runStatus(cmd.Context(), global.Verbose)
		},
	}
}
