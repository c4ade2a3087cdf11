// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes common error messages used throughout the application for
// domain-specific failures such as an unbalanced tree builder, an unknown
// file language, or an invalid MiKTeX file-name database. The Error type
// supports comparison via errors.Is().
package cerrs
