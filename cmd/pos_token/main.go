// Command pos_token mints a bearer token for an actor using the configured JWT secret.
// It is meant for local development and smoke tests.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/platform/config"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/logging"
	"github.com/SscSPs/pos_ledger_engine/internal/utils"
)

func main() {
	actorID := flag.String("actor", "", "actor ID placed in the token subject")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	issuer := flag.String("issuer", "pos-ledger-engine", "token issuer")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	token, err := utils.GenerateActorToken(*actorID, cfg.JWTSecret, *ttl, *issuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		flag.Usage()
		os.Exit(2)
	}

	fmt.Println(token)
}
