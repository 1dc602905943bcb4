package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/call-export/internal/config"
	"github.com/handiism/call-export/internal/tui"
)

func main() {
	configFlag := flag.String("config", "call-export.yaml", "Path to config file")
	envFlag := flag.String("env-file", ".env", "Path to .env file")
	flag.Parse()

	settings, err := config.Resolve(*configFlag, *envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
