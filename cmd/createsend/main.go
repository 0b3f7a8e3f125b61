package main

import (
	"os"

	"github.com/kbukum/createsend/cmd/createsend/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
