// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"

	"github.com/playbymail/texls/cerrs"
)

const (
	texliveDatabaseFile = "ls-R"
	miktexDatabaseFile  = "miktex/data/le"
)

// Runner executes an external command and returns its stdout. It is
// the injection seam that lets probe logic be tested without spawning
// real processes: production code wires runExec, tests wire a fake.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// runExec shells out via os/exec, retrying a transient spawn failure
// with exponential backoff before giving up (mirrors the retry idiom
// used elsewhere in this codebase for flaky I/O).
func runExec(ctx context.Context, name string, args ...string) (string, error) {
	var out string
	backoff := retry.WithMaxRetries(3, retry.NewExponential(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		cmd := exec.CommandContext(ctx, name, args...)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err != nil {
			if _, ok := err.(*exec.ExitError); ok {
				// the binary ran and rejected the arguments; retrying won't help
				return err
			}
			slog.Debug("distro: exec failed, retrying", "command", name, "args", args, "error", err)
			return retry.RetryableError(err)
		}
		out = stdout.String()
		return nil
	})
	return out, err
}

// Load probes the host for an installed TeX distribution and returns
// a populated Resolver. When kpsewhich fails, no TEXMF root exists, or
// no root holds an ls-R/.fndb-5 database, the failure is logged and a
// tectonic --version probe follows before degrading to a resolver with
// no file data. A database that exists but cannot be read or parsed is
// logged and that root is skipped; the other roots are still read.
// No error is ever returned to the caller. cacheSize <= 0
// uses the package default (config.Resolver_t.CacheSize feeds this).
// kpsewhichPath and tectonicPath override the executables looked up on
// $PATH (config.Resolver_t.KpsewhichPath/TectonicPath feed these); an
// empty string uses the bare command name.
func Load(ctx context.Context, fs afero.Fs, cacheSize int, kpsewhichPath, tectonicPath string) *Resolver {
	run := withBinaryOverrides(runExec, kpsewhichPath, tectonicPath)
	return load(ctx, fs, run, cacheSize)
}

// withBinaryOverrides rewrites the "kpsewhich"/"tectonic" command name
// a Runner is called with when a non-empty override path is configured,
// leaving every other command name (and an empty override) untouched.
func withBinaryOverrides(run Runner, kpsewhichPath, tectonicPath string) Runner {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		switch name {
		case "kpsewhich":
			if kpsewhichPath != "" {
				name = kpsewhichPath
			}
		case "tectonic":
			if tectonicPath != "" {
				name = tectonicPath
			}
		}
		return run(ctx, name, args...)
	}
}

func load(ctx context.Context, fs afero.Fs, run Runner, cacheSize int) *Resolver {
	roots, err := findRootDirectories(ctx, fs, run)
	if err != nil {
		slog.Warn("distro: could not determine TEXMF roots", "error", err)
		return loadTectonicOrEmpty(ctx, run, cacheSize)
	}
	if len(roots) == 0 {
		slog.Warn("distro: no existing TEXMF root directories")
		return loadTectonicOrEmpty(ctx, run, cacheSize)
	}

	kind, err := detectDistribution(fs, roots)
	if err != nil {
		slog.Warn("distro: no supported tex distribution found", "roots", roots, "error", err)
		return loadTectonicOrEmpty(ctx, run, cacheSize)
	}

	byFileName := make(map[string]string)
	for _, root := range roots {
		names, err := readDatabase(fs, kind, root)
		if err != nil {
			slog.Warn("distro: failed to read database", "root", root, "kind", kind.String(), "error", err)
			continue
		}
		for name, rel := range names {
			if !hasKnownExtension(name) {
				continue
			}
			if abs, ok := resolveAgainstRoots(fs, roots, rel); ok {
				byFileName[name] = abs
			}
		}
	}

	return New(kind, byFileName, cacheSize)
}

// loadTectonicOrEmpty is the spec.md §6 fallback reached once
// kpsewhich-based TEXMF root/database detection has failed outright:
// it probes for Tectonic, which has no ls-R/.fndb-5 database to read,
// before degrading all the way to an empty resolver.
func loadTectonicOrEmpty(ctx context.Context, run Runner, cacheSize int) *Resolver {
	if detectTectonic(ctx, run) {
		return New(KindTectonic, nil, cacheSize)
	}
	return New(KindNone, nil, cacheSize)
}

func detectTectonic(ctx context.Context, run Runner) bool {
	if _, err := run(ctx, "tectonic", "--version"); err != nil {
		slog.Debug("distro: tectonic --version failed", "error", err)
		return false
	}
	return true
}

func findRootDirectories(ctx context.Context, fs afero.Fs, run Runner) ([]string, error) {
	texmf, err := run(ctx, "kpsewhich", "-var-value", "TEXMF")
	if err != nil {
		return nil, oops.In("distro").Wrapf(err, "run kpsewhich -var-value TEXMF")
	}
	texmf = firstLine(texmf)

	expanded, err := run(ctx, "kpsewhich", "--expand-braces="+texmf)
	if err != nil {
		// kpsewhich itself couldn't expand the braces (e.g. sandboxed
		// test environment) — fall back to the pure-Go grammar over
		// the raw, unexpanded TEXMF value.
		slog.Debug("distro: kpsewhich --expand-braces failed, falling back to local brace expansion", "error", err)
		dirs, expandErr := expandTEXMFValue(texmf)
		if expandErr != nil {
			return nil, oops.In("distro").Wrapf(expandErr, "expand TEXMF value %q", texmf)
		}
		return filterExisting(fs, dirs), nil
	}
	expanded = firstLine(expanded)
	expanded = strings.ReplaceAll(expanded, "!", "")

	var dirs []string
	for _, d := range filepath.SplitList(expanded) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return filterExisting(fs, dirs), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func filterExisting(fs afero.Fs, dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if ok, _ := afero.DirExists(fs, d); ok {
			out = append(out, d)
		}
	}
	return out
}

func detectDistribution(fs afero.Fs, roots []string) (Kind, error) {
	for _, root := range roots {
		if ok, _ := afero.Exists(fs, filepath.Join(root, texliveDatabaseFile)); ok {
			return KindTexlive, nil
		}
		if ok, _ := afero.Exists(fs, filepath.Join(root, miktexDatabaseFile)); ok {
			return KindMiktex, nil
		}
	}
	return KindNone, cerrs.ErrNoDistribution
}

func readDatabase(fs afero.Fs, kind Kind, root string) (map[string]string, error) {
	switch kind {
	case KindTexlive:
		data, err := afero.ReadFile(fs, filepath.Join(root, texliveDatabaseFile))
		if err != nil {
			return nil, err
		}
		return ParseLSR(data), nil
	case KindMiktex:
		data, err := afero.ReadFile(fs, filepath.Join(root, miktexDatabaseFile))
		if err != nil {
			return nil, err
		}
		return ParseFNDB(data)
	default:
		return nil, cerrs.ErrNoDistribution
	}
}

// resolveAgainstRoots searches roots in reverse order so a root
// appended later (e.g. a user's TEXMFHOME) can override a same-named
// file resolved against an earlier, more generic root (TEXMFDIST).
func resolveAgainstRoots(fs afero.Fs, roots []string, rel string) (string, bool) {
	for i := len(roots) - 1; i >= 0; i-- {
		candidate := filepath.Join(roots[i], rel)
		if ok, _ := afero.Exists(fs, candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

var knownExtensions = map[string]bool{
	".tex": true, ".sty": true, ".cls": true, ".bib": true,
	".bst": true, ".cfg": true, ".def": true, ".ltx": true,
}

func hasKnownExtension(name string) bool {
	return knownExtensions[filepath.Ext(name)]
}
