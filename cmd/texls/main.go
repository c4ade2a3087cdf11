// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package main implements the texls command line tool.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/playbymail/texls/internal/config"
	"github.com/playbymail/texls/internal/stdlib"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
	globalConfig *config.Config
)

func main() {
	for _, arg := range os.Args {
		if arg == "-version" || arg == "--version" {
			fmt.Printf("%s\n", version.Short())
			return
		} else if arg == "-build-info" || arg == "--build-info" {
			fmt.Printf("%s\n", version.String())
			return
		}
	}
	log.SetFlags(log.Lshortfile | log.Ltime)

	const configFileName = "texls.json"
	debugConfigFile, _ := stdlib.IsFileExists(configFileName)
	cfg, err := config.Load(configFileName, slog.Default())
	if err != nil && debugConfigFile {
		log.Printf("[config] %q: %v\n", configFileName, err)
	}

	if err := Execute(cfg); err != nil {
		log.Fatal(err)
	}
}

func Execute(cfg *config.Config) error {
	globalConfig = cfg

	cmdRoot.PersistentFlags().BoolVar(&argsRoot.showVersion, "show-version", false, "show version")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.logLevel, "log-level", globalConfig.LogLevel, "set log level (debug, info, warn, error)")

	cmdRoot.AddCommand(cmdVersion)

	cmdRoot.AddCommand(cmdParse)
	cmdParse.Flags().BoolVar(&argsParse.json, "json", false, "print the parse summary as JSON")

	cmdRoot.AddCommand(cmdBuildlog)
	cmdBuildlog.Flags().BoolVar(&argsBuildlog.noColor, "no-color", false, "disable colorized diagnostic output")

	cmdRoot.AddCommand(cmdResolve)
	cmdResolve.Flags().StringSliceVar(&argsResolve.extensions, "ext", []string{"tex", "sty", "cls", "bib"}, "candidate extensions to probe, in order")

	return cmdRoot.Execute()
}

var argsRoot struct {
	showVersion bool
	logLevel    string
}

var cmdRoot = &cobra.Command{
	Use:   "texls",
	Short: "Root command for the texls incremental syntax layer",
	Long:  `texls lexes, parses, and analyzes LaTeX and BibTeX source without typesetting it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := parseLogLevel(argsRoot.logLevel)
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		if argsRoot.showVersion {
			log.Printf("version: %s\n", version)
		}
		return nil
	},
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
