package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/vmunix/voseflix/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("voseflixd %s\n", version)
		os.Exit(0)
	}

	if err := runServer(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, config.ErrInvalid) {
			fmt.Fprintln(os.Stderr, "run 'voseflix config test' for a full report")
		}
		os.Exit(1)
	}
}
