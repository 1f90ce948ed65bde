package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml configuration file")
	port := flag.Int("port", 0, "overrides the configured listen port")
	verbose := flag.Bool("vv", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("configuration loading failed")
	}

	if *port != 0 {
		config.Port = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info().Msg("initializing cache service")
	cacheService := InitializeCache(ctx)

	log.Info().Msg("initializing proxy service")
	proxyService := InitializeProxy(config, cacheService)

	http.HandleFunc("/image", handleImageRequest(ctx, proxyService))
	http.HandleFunc("/invalidate", handleInvalidationRequest(ctx, cacheService))

	log.Info().Int("port", config.Port).Msg("listening")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", config.Port), nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
