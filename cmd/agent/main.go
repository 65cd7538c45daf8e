package main

import (
	"os"

	"github.com/dbforge/mssql-provision-agent/cmd/agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
