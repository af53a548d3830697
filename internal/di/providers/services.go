package providers

import (
	"github.com/samber/do/v2"

	"github.com/smartspb/mediabot/internal/config"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/session"
	"github.com/smartspb/mediabot/internal/tagger"
	"github.com/smartspb/mediabot/internal/validation"
)

// ProvideArchiveService provides the archive write service.
func ProvideArchiveService(i do.Injector) (*service.ArchiveService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	extractor := do.MustInvoke[*tagger.Extractor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArchiveService(storeHandle.Store, extractor, cfg.App.Location, log.Logger), nil
}

// ProvideNavigator provides the gallery and list reader.
func ProvideNavigator(i do.Injector) (*service.Navigator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNavigator(storeHandle.Store, searchService, cfg.App.Location, log.Logger), nil
}

// ProvideSessionStore provides the conversation state store.
func ProvideSessionStore(i do.Injector) (*session.Store, error) {
	return session.NewStore(), nil
}

// ProvideValidator provides the input validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
