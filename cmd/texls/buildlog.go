// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/playbymail/texls/internal/buildlog"
)

var argsBuildlog struct {
	noColor bool
}

var cmdBuildlog = &cobra.Command{
	Use:   "buildlog <file>",
	Short: "parse a pdfTeX/LaTeX build log and print its diagnostics",
	Long:  `Parse a pdfTeX/LaTeX engine build log and print the errors, warnings, and bad-box diagnostics it attributes to each source file.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := buildlog.ParseFile(args[0])
		if err != nil {
			log.Fatalf("buildlog: %v\n", err)
		}

		useColor := !argsBuildlog.noColor && isatty.IsTerminal(os.Stdout.Fd())
		errorColor := color.New(color.FgRed, color.Bold)
		warnColor := color.New(color.FgYellow)

		for _, d := range result.Diagnostics {
			sev := d.Severity.String()
			line := "?"
			if d.Line != nil {
				line = fmt.Sprintf("%d", *d.Line+1)
			}
			if useColor {
				c := warnColor
				if d.Severity == buildlog.SeverityError {
					c = errorColor
				}
				c.Printf("%s:%s: %s: %s\n", d.Path, line, sev, d.Message)
			} else {
				fmt.Printf("%s:%s: %s: %s\n", d.Path, line, sev, d.Message)
			}
		}
		if len(result.Diagnostics) == 0 {
			fmt.Println("no diagnostics found")
		}
	},
}
