// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/playbymail/texls/internal/bibtex"
	"github.com/playbymail/texls/internal/distro"
	"github.com/playbymail/texls/internal/document"
	"github.com/playbymail/texls/internal/green"
	"github.com/playbymail/texls/internal/latex"
	"github.com/playbymail/texls/internal/syntax"
)

var argsParse struct {
	json bool
}

var cmdParse = &cobra.Command{
	Use:   "parse <file>",
	Short: "parse a LaTeX or BibTeX file and print a CST summary",
	Long:  `Parse a single .tex/.sty/.cls/.bib file and report its node/error counts and semantic Extras.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		summary, err := parseOne(args[0])
		if err != nil {
			log.Fatalf("parse: %v\n", err)
		}
		if argsParse.json {
			buf, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				log.Fatalf("parse: %v\n", err)
			}
			fmt.Println(string(buf))
			return
		}
		fmt.Printf("%s  (%s)\n", summary.URI, summary.VersionID)
		fmt.Printf("  language:    %s\n", summary.Language)
		fmt.Printf("  size:        %s\n", humanize.Bytes(uint64(summary.Bytes)))
		fmt.Printf("  parsed in:   %s\n", summary.Elapsed)
		fmt.Printf("  nodes:       %d\n", summary.NodeCount)
		fmt.Printf("  error tokens: %d\n", summary.ErrorCount)
		fmt.Printf("  explicit links: %d, labels: %d, environments: %d\n",
			summary.ExplicitLinks, summary.Labels, summary.Environments)
	},
}

type parseSummary struct {
	URI           string `json:"URI"`
	VersionID     string `json:"VersionID"`
	Language      string `json:"Language"`
	Bytes         int    `json:"Bytes"`
	Elapsed       string `json:"Elapsed"`
	NodeCount     int    `json:"NodeCount"`
	ErrorCount    int    `json:"ErrorCount"`
	ExplicitLinks int    `json:"ExplicitLinks,omitempty"`
	Labels        int    `json:"Labels,omitempty"`
	Environments  int    `json:"Environments,omitempty"`
}

func parseOne(path string) (parseSummary, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return parseSummary{}, err
	}
	src := string(data)

	lang, err := document.DetectLanguage(filepath.Ext(path))
	if err != nil {
		return parseSummary{}, err
	}

	summary := parseSummary{
		URI:       path,
		VersionID: uuid.NewString(),
		Bytes:     len(data),
	}

	switch lang {
	case document.LanguageLatex:
		summary.Language = "latex"
		tree, err := latex.ParseFile(src)
		if err != nil {
			return parseSummary{}, err
		}
		root := syntax.Root(tree)
		nodes, errs := countNodes(root)
		summary.NodeCount, summary.ErrorCount = nodes, errs

		extras := latex.Analyze(root, path, distro.Empty())
		summary.ExplicitLinks = len(extras.ExplicitLinks)
		summary.Labels = len(extras.LabelNames)
		summary.Environments = len(extras.EnvironmentNames)
	case document.LanguageBibtex:
		summary.Language = "bibtex"
		tree, err := bibtex.ParseFile(src)
		if err != nil {
			return parseSummary{}, err
		}
		root := syntax.Root(tree)
		nodes, errs := countNodes(root)
		summary.NodeCount, summary.ErrorCount = nodes, errs
		summary.ExplicitLinks = len(bibtex.Entries(root))
	}

	summary.Elapsed = time.Since(start).String()
	return summary, nil
}

func countNodes[K green.KindValue](root *syntax.Node[K]) (nodes, errs int) {
	root.Descendants(func(n *syntax.Node[K]) {
		nodes++
		for _, tok := range n.ChildTokens() {
			if tok.Kind().IsError() {
				errs++
			}
		}
	})
	return nodes, errs
}
