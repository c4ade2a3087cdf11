// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads the texls CLI's on-disk configuration: workspace
// roots, the TeX distribution resolver's startup settings, and CLI
// defaults. It never talks to the syntax layer directly.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/playbymail/texls/cerrs"
)

// Config is the texls CLI's configuration file shape.
type Config struct {
	Workspace Workspace_t `json:"Workspace"`
	Resolver  Resolver_t  `json:"Resolver"`
	LogLevel  string      `json:"LogLevel,omitempty"`
}

type Workspace_t struct {
	// Roots is the list of directories scanned for .tex/.sty/.cls/.bib files.
	Roots []string `json:"Roots,omitempty"`
}

// Resolver_t configures the TeX distribution resolver (spec §6). All of
// it is optional: an empty Resolver_t degrades to an empty resolver map.
type Resolver_t struct {
	// KpsewhichPath overrides the "kpsewhich" executable used to probe
	// the installed TeX distribution. Empty means "look up $PATH".
	KpsewhichPath string `json:"KpsewhichPath,omitempty"`
	// TectonicPath overrides the "tectonic" executable probed when
	// kpsewhich is not found.
	TectonicPath string `json:"TectonicPath,omitempty"`
	// CacheSize bounds the in-memory FindByNameWithExtensions result cache.
	CacheSize int `json:"CacheSize,omitempty"`
	// Disabled turns distribution discovery off: `texls resolve` exits
	// with an error instead of probing the host.
	Disabled bool `json:"Disabled,omitempty"`
}

const (
	ErrIsDirectory = cerrs.Error("is directory")
	ErrIsNotAFile  = cerrs.Error("is not a file")
)

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		LogLevel: "error",
		Resolver: Resolver_t{
			CacheSize: 512,
		},
	}
}

// Load reads a JSON configuration file at name, merging its non-zero
// fields over Default(). A missing file is not an error: Load degrades
// to Default(). A file that cannot be read or holds malformed JSON is
// logged (through slog.Default() when logger is nil) and yields the
// default configuration with a nil error. A path that cannot be
// stat'ed, is a directory, or is not a regular file returns the
// default configuration together with an error, as does a merged
// configuration whose Resolver.CacheSize is not positive.
func Load(name string, logger *slog.Logger) (*Config, error) {
	cfg := Default()
	if logger == nil {
		logger = slog.Default()
	}

	sb, err := os.Stat(name)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	} else if sb.IsDir() {
		return cfg, ErrIsDirectory
	} else if !sb.Mode().IsRegular() {
		return cfg, ErrIsNotAFile
	}

	data, err := os.ReadFile(name)
	if err != nil {
		logger.Warn("config: read failed", "path", name, "error", err)
		return cfg, nil
	}
	var tmp Config
	if err = json.Unmarshal(data, &tmp); err != nil {
		logger.Warn("config: invalid json", "path", name, "error", err)
		return cfg, nil
	}

	copyNonZeroFields(&tmp, cfg)
	if cfg.Resolver.CacheSize <= 0 {
		return cfg, fmt.Errorf("resolver: cache size must be positive, got %d", cfg.Resolver.CacheSize)
	}
	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst
// using reflection, so that a partial JSON config only overrides the
// fields it sets and leaves the rest at their Default() values.
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}
	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)
		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}
		if srcField.IsZero() {
			continue
		}
		switch srcField.Kind() {
		case reflect.Struct:
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			dstField.Set(srcField)
		}
	}
}
