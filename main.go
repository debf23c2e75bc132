package main

import (
	"flag"
	"freegames/internal/di"
	"freegames/internal/structures"
	"log"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "debug mode")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("app stopped with error: %s", err)
	}
}
