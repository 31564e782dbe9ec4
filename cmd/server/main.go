package main

import (
	"flag"
	"log"

	"github.com/NightBlaze752/openai-nim-proxy/internal/config"
	"github.com/NightBlaze752/openai-nim-proxy/internal/logger"
	"github.com/NightBlaze752/openai-nim-proxy/internal/server"
	"github.com/NightBlaze752/openai-nim-proxy/internal/upstream"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger.InitLogger(logger.ParseLevel(*logLevel), "main")

	// Load configuration from file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	srv := server.New(cfg, upstream.NewClient(cfg.Upstream))
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
