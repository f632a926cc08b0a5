// Package main is the entry point for the mashup application.
package main

import (
	"github.com/mashup-cli/mashup/cmd"
	"github.com/mashup-cli/mashup/config"
	"github.com/mashup-cli/mashup/internal/cache"
	"github.com/mashup-cli/mashup/log"
	"github.com/mashup-cli/mashup/mashup"
	"github.com/mashup-cli/mashup/where"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Drop search results past their lifetime.
	cache.CollectGarbage()
	// Workspaces left behind by killed runs.
	mashup.CollectGarbage(where.Temp())

	cmd.Execute()
}
