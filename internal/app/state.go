// Package app собирает приложение из кусков: конфиг, хранилище,
// журнал, шина событий, синхронизатор и мутатор.
//
// Один composition root для TUI и CLI утилит.
package app

import (
	"fmt"

	"github.com/ilkoid/kadr/pkg/config"
	"github.com/ilkoid/kadr/pkg/events"
	"github.com/ilkoid/kadr/pkg/gallery"
	"github.com/ilkoid/kadr/pkg/journal"
	"github.com/ilkoid/kadr/pkg/s3storage"
	"github.com/ilkoid/kadr/pkg/utils"
)

// AppState — всё, что нужно UI и утилитам.
type AppState struct {
	Config  *config.AppConfig
	Gateway s3storage.Gateway
	Store   *gallery.Store
	Sync    *gallery.Synchronizer
	Mutator *gallery.Mutator
	Emitter *events.ChanEmitter
	Journal *journal.Journal // nil если journal_path не задан
}

// New загружает конфиг и инициализирует все зависимости.
func New(cfgPath string) (*AppState, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	utils.SetDebug(cfg.App.Debug)

	gw, err := s3storage.New(cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("s3 init: %w", err)
	}

	var jr *journal.Journal
	if cfg.Gallery.JournalPath != "" {
		jr, err = journal.New(cfg.Gallery.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("journal init: %w", err)
		}
	}

	// Буфер с запасом: bulk progress может сыпаться чаще, чем UI читает
	emitter := events.NewChanEmitter(64)
	store := gallery.NewStore()

	// journal.Journal имеет метод Record — но nil указатель в non-nil
	// интерфейсе опасен, поэтому приводим явно
	var recorder gallery.OpRecorder
	if jr != nil {
		recorder = jr
	}

	return &AppState{
		Config:  cfg,
		Gateway: gw,
		Store:   store,
		Sync:    gallery.NewSynchronizer(gw, store, emitter, recorder, cfg.Gallery.SignTTL, cfg.Gallery.SignBatchSize),
		Mutator: gallery.NewMutator(gw, store, emitter, recorder, cfg.Gallery.DeleteBatchSize, cfg.Gallery.DownloadDir),
		Emitter: emitter,
		Journal: jr,
	}, nil
}

// Close освобождает ресурсы (шина, журнал).
func (s *AppState) Close() {
	s.Emitter.Close()
	if s.Journal != nil {
		if err := s.Journal.Close(); err != nil {
			utils.Warn("journal close failed", "err", err)
		}
	}
}
