package main

import (
	"os"

	"insales/catsync/internal/cli"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Debug("Starting catsync...")

	if err := cli.Execute(); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}
