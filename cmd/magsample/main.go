package main

import (
	"fmt"
	"os"

	"github.com/haricheung/magsample/internal/config"
)

func main() {
	// Load env before flags so MAGSAMPLE_* values become flag defaults
	config.LoadEnv()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
