package main

import (
	"context"
	"flag"

	"go-healthcare-records/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", ".env", "path to the env config file")
	flag.Parse()

	ctx := context.Background()

	// Initialize application with all dependencies
	app, err := bootstrap.New(ctx, *configPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		logrus.Fatalf("Application stopped: %v", err)
	}
}
