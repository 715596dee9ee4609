package main

import (
	"os"

	"github.com/amith-0609/HackAnanta-Team-Terminators/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
