// Command librisysd runs the development backend double: the full library
// REST surface against an in-memory store, for driving libraryctl and the
// client tests locally.
package main

import (
	"context"
	"os"

	"github.com/librisys/library-client/internal/devserver"
	"github.com/librisys/library-client/internal/infrastructure/config"
	"github.com/librisys/library-client/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadDevServer(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	opts := devserver.Options{
		Secret:   cfg.SessionSecret,
		OTPFixed: cfg.OTPFixed,
	}
	if cfg.RedisAddr != "" {
		client, err := devserver.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable")
		}
		defer client.Close()
		opts.Sessions = devserver.NewRedisSessions(client)
		log.Info().Str("addr", cfg.RedisAddr).Msg("sessions backed by redis")
	}

	srv := devserver.New(opts, log)
	seed(srv.Store(), log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("dev server listening")
	if err := srv.Router().Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
