// Package main is the entry point for the tokcount command.
package main

import (
	"os"

	"github.com/promptacct/promptacct/cmd/tokcount/app"
	"github.com/promptacct/promptacct/logging"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		logging.Errorw("tokcount: command failed", "error", err)
		os.Exit(1)
	}
}
