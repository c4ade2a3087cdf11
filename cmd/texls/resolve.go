// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/playbymail/texls/internal/distro"
)

var argsResolve struct {
	extensions []string
}

var cmdResolve = &cobra.Command{
	Use:   "resolve <stem>",
	Short: "resolve a file-name stem against the installed TeX distribution",
	Long:  `Probe the host TeX distribution (TeX Live, MiKTeX, or Tectonic) via kpsewhich/tectonic and resolve a bare file-name stem, e.g. "amsmath" or "article", against it.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if globalConfig.Resolver.Disabled {
			log.Fatalf("resolve: distribution resolver is disabled by configuration\n")
		}

		resolver := distro.Load(context.Background(), afero.NewOsFs(), globalConfig.Resolver.CacheSize,
			globalConfig.Resolver.KpsewhichPath, globalConfig.Resolver.TectonicPath)
		path, ok := resolver.FindByNameWithExtensions(args[0], argsResolve.extensions)
		if !ok {
			fmt.Printf("%s: not found (distribution: %s)\n", args[0], resolver.Kind())
			return
		}
		fmt.Println(path)
	},
}
