package main

import (
	"context"
	"os"

	"github.com/finboard/finboard/internal/cli"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	application := cli.NewApp()
	application.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	err := cli.NewRootCmd(application).ExecuteContext(context.Background())
	if closeErr := application.Close(); closeErr != nil {
		log.Warnf("failed to release resources: %v", closeErr)
	}
	if err != nil {
		log.Fatal(err)
	}
}
