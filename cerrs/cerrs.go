// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs implements constant errors.
package cerrs

// Error defines a constant error
type Error string

// Error implements the Errors interface
func (e Error) Error() string { return string(e) }

const (
	// ErrUnbalancedBuilder is returned by green.Builder when finish() is
	// called with an unmatched start_node still open (spec §4.2).
	ErrUnbalancedBuilder = Error("unbalanced builder: unclosed node")
	// ErrNoCheckpoint is the value green.Builder.StartNodeAt panics with
	// when a checkpoint points past the children of the open node.
	ErrNoCheckpoint = Error("checkpoint does not belong to this builder")
	// ErrUnknownLanguage is returned by document.DetectLanguage for an
	// extension that is neither a LaTeX nor a BibTeX extension (spec §6).
	ErrUnknownLanguage = Error("unknown language for file extension")
	// ErrEmptyInput is returned by callers that require non-empty source
	// text before invoking a parser (the parsers themselves never return
	// it: they are total over all input, including the empty string).
	ErrEmptyInput = Error("empty input")
	// ErrResolverDisabled names the condition of distribution discovery
	// being turned off by configuration. No package returns it:
	// cmd/texls reports that case with its own message.
	ErrResolverDisabled = Error("distribution resolver disabled")
	// ErrNoDistribution is surfaced by internal/distro when neither
	// kpsewhich nor tectonic could be located on the host.
	ErrNoDistribution = Error("no tex distribution found")
	// ErrInvalidFNDB is returned while parsing a MiKTeX .fndb-5 file
	// whose magic number or table layout does not match spec §6.
	ErrInvalidFNDB = Error("invalid fndb file")
	// ErrNotAFile / ErrNotDirectory name filesystem-shape failures; no
	// package in this module returns them at present.
	ErrNotAFile     = Error("not a file")
	ErrNotDirectory = Error("not a directory")
)
