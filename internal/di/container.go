// Package di provides dependency injection configuration for the media bot.
package di

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do/v2"

	"github.com/smartspb/mediabot/internal/bot"
	"github.com/smartspb/mediabot/internal/config"
	"github.com/smartspb/mediabot/internal/di/providers"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/tagger"
	"github.com/smartspb/mediabot/internal/telegram"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideInstanceLock)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Tagging
	do.Provide(injector, providers.ProvideDictionary)
	do.Provide(injector, providers.ProvideTagger)
	do.Provide(injector, providers.ProvideDictionaryWatcher)

	// Business services
	do.Provide(injector, providers.ProvideArchiveService)
	do.Provide(injector, providers.ProvideNavigator)
	do.Provide(injector, providers.ProvideSessionStore)
	do.Provide(injector, providers.ProvideValidator)

	// Chat transport
	do.Provide(injector, providers.ProvideTelegramAPI)
	do.Provide(injector, providers.ProvideSendLimiter)
	do.Provide(injector, providers.ProvideTransport)
	do.Provide(injector, providers.ProvideUpdateQueue)

	// Bot
	do.Provide(injector, providers.ProvideBot)
	do.Provide(injector, providers.ProvideBotRunner)
	do.Provide(injector, providers.ProvideUpdateSource)

	return injector
}

// Bootstrap initializes all services and starts the bot.
// Storage is opened before the chat connection so that a locked or broken
// data directory fails fast.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[*providers.InstanceLockHandle](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*service.SearchService](injector),
		invoke[*tagger.Extractor](injector),
		invoke[*providers.DictionaryWatcherHandle](injector),
		invoke[*service.ArchiveService](injector),
		invoke[*service.Navigator](injector),
		invoke[*tgbotapi.BotAPI](injector),
		invoke[*telegram.Client](injector),
		invoke[*bot.Bot](injector),
		invoke[*providers.BotRunnerHandle](injector),
		invoke[*providers.UpdateSourceHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	// Trigger search reindex if needed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
