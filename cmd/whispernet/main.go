package main

import (
	"os"

	"github.com/bryanwahyu/whispernet/internal/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
