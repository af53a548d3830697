package providers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do/v2"

	"github.com/smartspb/mediabot/internal/config"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/ratelimit"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/telegram"
	"github.com/smartspb/mediabot/internal/webhook"
)

// Inbound flood limits per user, webhook mode only.
const (
	inboundRate  = 5
	inboundBurst = 30
)

// UpdateSourceHandle feeds the update queue from long polling or a webhook.
type UpdateSourceHandle struct {
	cancel  context.CancelFunc
	server  *http.Server
	limiter *ratelimit.KeyedRateLimiter[int64]
}

// Shutdown implements do.ShutdownerWithError.
func (h *UpdateSourceHandle) Shutdown() error {
	h.cancel()
	if h.limiter != nil {
		h.limiter.Stop()
	}
	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.server.Shutdown(ctx)
}

// ProvideUpdateSource starts receiving updates in the configured mode. It
// depends on the bot loop so that it is stopped before the loop is.
func ProvideUpdateSource(i do.Injector) (*UpdateSourceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	_ = do.MustInvoke[*BotRunnerHandle](i)
	if cfg.Telegram.Mode == config.ModeWebhook {
		return startWebhook(i)
	}
	return startPolling(i)
}

func startPolling(i do.Injector) (*UpdateSourceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	api := do.MustInvoke[*tgbotapi.BotAPI](i)
	updates := do.MustInvoke[UpdateQueue](i)

	// getUpdates is refused while a webhook is set.
	if err := telegram.DeleteWebhook(api); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	poller := telegram.NewPoller(api, cfg.Telegram.PollTimeout, log.Logger)

	go func() {
		if err := poller.Run(ctx, updates); err != nil {
			log.Error("Long polling stopped", "error", err)
		}
	}()

	return &UpdateSourceHandle{cancel: cancel}, nil
}

func startWebhook(i do.Injector) (*UpdateSourceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	api := do.MustInvoke[*tgbotapi.BotAPI](i)
	updates := do.MustInvoke[UpdateQueue](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	limiter := ratelimit.New[int64](inboundRate, inboundBurst, 0)
	handler := webhook.NewServer(webhook.Options{
		Updates: updates,
		Limiter: limiter,
		Logger:  log.Logger,
		Health: map[string]webhook.HealthFunc{
			"database": func(ctx context.Context) (string, error) {
				return "", storeHandle.Ping(ctx)
			},
			"search": func(context.Context) (string, error) {
				n, err := searchService.DocumentCount()
				if err != nil {
					return "", err
				}
				return strconv.FormatUint(n, 10) + " documents", nil
			},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Telegram.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	// Start in background
	go func() {
		log.Info("Webhook server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Webhook server error", "error", err)
		}
	}()

	url := strings.TrimSuffix(cfg.Telegram.WebhookURL, "/") + handler.Path()
	if err := telegram.SetWebhook(api, url); err != nil {
		limiter.Stop()
		_ = srv.Close()
		return nil, err
	}
	log.Info("Webhook registered", "base_url", cfg.Telegram.WebhookURL)

	return &UpdateSourceHandle{cancel: func() {}, server: srv, limiter: limiter}, nil
}
