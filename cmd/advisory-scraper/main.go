package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/aquasecurity/advisory-scraper/pkg"
)

var (
	version = "0.0.1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ac := pkg.AppConfig{
		Context: ctx,
	}

	app := ac.NewApp(version)
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
