package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/server"
	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

const pruneInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getCfg(cmd)

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if cmd.Flags().Changed("token-ttl") {
			ttl, _ := cmd.Flags().GetDuration("token-ttl")
			if ttl <= 0 {
				return cmdErr(fmt.Errorf("--token-ttl must be positive, got %s", ttl), output.ErrValidation)
			}
			cfg.TokenTTL = ttl
		}

		if cfg.Level() > zerolog.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		gin.DefaultWriter = zerolog.ConsoleWriter{Out: os.Stderr}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := getService(cmd)
		go pruneSessions(ctx, svc)

		log.Info().
			Str("db", cfg.DBPath).
			Dur("token_ttl", cfg.TokenTTL).
			Msg("starting softdesk")

		if err := server.Run(ctx, cfg.Addr, server.NewRouter(svc)); err != nil {
			return cmdErr(fmt.Errorf("serving: %w", err), output.ErrGeneral)
		}
		return nil
	},
}

// pruneSessions deletes expired tokens at startup and then every
// pruneInterval until ctx is done.
func pruneSessions(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		n, err := svc.PruneSessions(ctx)
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("pruning sessions")
		} else if n > 0 {
			log.Debug().Int("count", n).Msg("pruned expired sessions")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().Duration("token-ttl", 0, "Token lifetime (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
