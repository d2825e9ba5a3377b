package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/api"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/cache"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/forecast"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/httputil"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/meteoblue"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/refresh"
)

type cli struct {
	APIKey  string        `env:"METEOBLUE_API_KEY" required:"" help:"Meteoblue API key."`
	Port    string        `env:"PORT" default:"8080" help:"HTTP server port."`
	TTL     time.Duration `env:"CACHE_TTL" default:"15m" help:"Forecast cache TTL."`
	Timeout time.Duration `env:"HTTP_TIMEOUT" default:"10s" help:"Provider request timeout."`
	NoWarm  bool          `help:"Disable background cache warming."`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("perutelemetry"),
		kong.Description("Weather-forecast dashboard for seven Peruvian locations."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	client := meteoblue.NewWithBaseURL(flags.APIKey, meteoblue.DefaultBaseURL,
		httputil.NewClientWithTimeout(flags.Timeout))
	store := cache.New(flags.TTL)
	svc := forecast.NewService(client, store)
	server := api.NewServer(svc, flags.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !flags.NoWarm {
		go refresh.New(svc, flags.TTL).Run(ctx)
	} else {
		log.Println("cache warming disabled (--no-warm)")
	}

	log.Printf("starting server on :%s", flags.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
