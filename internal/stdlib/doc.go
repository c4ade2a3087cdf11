// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package stdlib provides small filesystem existence-checking helpers
// (cmd/texls uses IsFileExists for its config file), against both the real
// filesystem (os.Stat) and an fs.FS (so callers can check existence
// inside an afero.IOFS-backed workspace).
package stdlib
