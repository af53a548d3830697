package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/smartspb/mediabot/internal/config"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/tagger"
	"github.com/smartspb/mediabot/internal/watcher"
)

// ProvideDictionary provides the morphology dictionary, from file when configured.
func ProvideDictionary(i do.Injector) (*tagger.Dictionary, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Tagger.DictionaryPath == "" {
		d := tagger.Builtin()
		log.Info("Using built-in dictionary", "words", d.Len())
		return d, nil
	}

	d, err := tagger.LoadDictionaryFile(cfg.Tagger.DictionaryPath)
	if err != nil {
		return nil, err
	}
	log.Info("Dictionary loaded", "path", cfg.Tagger.DictionaryPath, "words", d.Len())
	return d, nil
}

// ProvideTagger provides the tag extractor.
func ProvideTagger(i do.Injector) (*tagger.Extractor, error) {
	return tagger.New(do.MustInvoke[*tagger.Dictionary](i)), nil
}

// DictionaryWatcherHandle reloads the dictionary file on change.
// Watcher is nil when watching is off.
type DictionaryWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.ShutdownerWithError.
func (h *DictionaryWatcherHandle) Shutdown() error {
	h.cancel()
	if h.Watcher == nil {
		return nil
	}
	return h.Stop()
}

// ProvideDictionaryWatcher provides the dictionary hot reload worker.
func ProvideDictionaryWatcher(i do.Injector) (*DictionaryWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	dict := do.MustInvoke[*tagger.Dictionary](i)

	ctx, cancel := context.WithCancel(context.Background())
	path := cfg.Tagger.DictionaryPath
	if path == "" || !cfg.Tagger.Watch {
		return &DictionaryWatcherHandle{cancel: cancel}, nil
	}

	w, err := watcher.New(log.Logger, watcher.Options{})
	if err != nil {
		cancel()
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		cancel()
		_ = w.Stop()
		return nil, err
	}

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Dictionary watcher error", "error", err)
		}
	}()

	go func() {
		for {
			select {
			case err := <-w.Errors():
				log.Warn("dictionary watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	go dict.Follow(ctx, path, w.Events(), log.Logger)

	log.Info("Watching dictionary", "path", path)
	return &DictionaryWatcherHandle{Watcher: w, cancel: cancel}, nil
}
