// Package main is the entry point for the uasctl CLI tool.
package main

import (
	"os"

	"uas-projects-service/cmd/uasctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
