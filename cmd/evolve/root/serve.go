package root

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adhocore/gronx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KemboiK/evolve-bot/internal/config"
	"github.com/KemboiK/evolve-bot/internal/engine"
	"github.com/KemboiK/evolve-bot/internal/events"
	"github.com/KemboiK/evolve-bot/internal/reply"
	"github.com/KemboiK/evolve-bot/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if flagDBPath != "" {
				cfg.DBPath = flagDBPath
			}
			if cfg.DBPath == "" {
				cfg.DBPath, err = resolveDBPath()
				if err != nil {
					return err
				}
			}

			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, cleanup, err := openDBAt(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer cleanup()

			var primary reply.Generator
			if cfg.OpenAI.APIKey != "" {
				primary = reply.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.APIBase, cfg.OpenAI.Model)
			}
			gen := reply.NewFallback(primary, reply.NewTemplateGenerator(), log)

			sinks := events.Fanout{events.NewLogSink(log)}
			if cfg.Webhook != "" {
				sinks = append(sinks, events.NewWebhookSink(cfg.Webhook, log))
			}

			svc := engine.NewService(db,
				engine.WithReplyGenerator(gen),
				engine.WithEventSink(sinks),
				engine.WithLogger(log),
			)

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           server.New(svc, cfg, log).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go runDigestLoop(ctx, svc, sinks, cfg.DigestCron, log)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("db", cfg.DBPath))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// runDigestLoop emits a daily activity digest when the configured cron
// expression fires. Best-effort: a bad expression disables the digest.
func runDigestLoop(ctx context.Context, svc *engine.Service, sink events.Sink, cronExpr string, log *zap.Logger) {
	if cronExpr == "" {
		return
	}
	g := gronx.New()
	if !g.IsValid(cronExpr) {
		log.Warn("invalid digest cron, digest disabled", zap.String("cron", cronExpr))
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			due, err := g.IsDue(cronExpr, time.Now())
			if err != nil || !due {
				continue
			}
			sessions, err := svc.ProfileRepo().Count(ctx)
			if err != nil {
				log.Warn("digest profile count failed", zap.Error(err))
				continue
			}
			messages, err := svc.ActivityRepo().CountSince(ctx, time.Now().Add(-24*time.Hour))
			if err != nil {
				log.Warn("digest message count failed", zap.Error(err))
				continue
			}
			nctx, cancel := context.WithTimeout(ctx, events.NotifyTimeout)
			sink.Notify(nctx, events.Event{
				Type: "daily_digest",
				Payload: map[string]any{
					"sessions":     sessions,
					"messages_24h": messages,
				},
				At: time.Now(),
			})
			cancel()
		}
	}
}
