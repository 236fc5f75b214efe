// psh - process shell
// Minimal job-controlling command interpreter written from scratch in Go.
// Copyright (c) 2026 psh project - 0BSD License

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"psh/internal/config"
	"psh/internal/shell"
)

var version = "1.0.0"

func main() {
	cfg := config.New()
	exitCode := 0

	rootCmd := &cobra.Command{
		Use:     "psh [script]",
		Short:   "psh - a small process shell",
		Long:    "psh reads lines of shell syntax and runs them: pipes,\nredirection, sequencing, grouping and background jobs.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.ScriptFile = args[0]
			}
			code, err := shell.New(cfg).Run()
			exitCode = code
			return err
		},
	}

	rootCmd.Flags().StringVarP(&cfg.Command, "command", "c", "", "execute one command line and exit")
	rootCmd.Flags().BoolVarP(&cfg.Interactive, "interactive", "i", false, "force interactive mode")
	rootCmd.Flags().BoolVar(&cfg.Debug, "debug", false, "print each command's exit status")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "psh: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
