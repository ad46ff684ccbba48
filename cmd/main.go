package main

import (
	"flag"

	"bloodbank-inventory/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "path to the env file")
	flag.Parse()

	app, err := bootstrap.New(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("Blood bank inventory failed to start")
	}

	app.Run()
}
