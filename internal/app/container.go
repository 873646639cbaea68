package app

import (
	"net/http"
	"time"

	"github.com/hesabkit/hesabchat/internal/infrastructure/backend"
	"github.com/hesabkit/hesabchat/internal/infrastructure/cache"
	"github.com/hesabkit/hesabchat/internal/infrastructure/config"
	"github.com/hesabkit/hesabchat/internal/infrastructure/journal"
	"github.com/hesabkit/hesabchat/internal/pkg/logger"
	"github.com/hesabkit/hesabchat/internal/ports"
	"github.com/hesabkit/hesabchat/internal/services"
)

// Container wires the conversation core with its infrastructure adapters.
type Container struct {
	Config        config.Config
	ConfigLoader  *config.FileLoader
	Gateway       *backend.Client
	Journal       ports.ConversationJournal
	Logger        ports.Logger
	ChatService   *services.ChatService
	DoctorService *services.DoctorService
}

// BuildContainer constructs the dependency graph.
func BuildContainer(verbose bool) (*Container, error) {
	loader := config.NewFileLoader("")
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)
	gateway := backend.NewClient(cfg.BackendAddress, &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	})

	var store ports.ConversationJournal
	if !cfg.JournalDisabled {
		store = journal.NewSQLiteStore()
	}

	entityCache := cache.NewEntityCache(gateway.FetchEntities,
		time.Duration(cfg.EntityCacheTTLSeconds)*time.Second)

	chatService := &services.ChatService{
		Gateway:  gateway,
		Entities: entityCache,
		Journal:  store,
		Logger:   log,
	}
	doctorService := &services.DoctorService{
		Gateway:    gateway,
		Journal:    store,
		ConfigPath: loader.Path(),
	}

	return &Container{
		Config:        cfg,
		ConfigLoader:  loader,
		Gateway:       gateway,
		Journal:       store,
		Logger:        log,
		ChatService:   chatService,
		DoctorService: doctorService,
	}, nil
}
