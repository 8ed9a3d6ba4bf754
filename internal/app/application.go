// Package app composes the item-shop services into a running application:
// it wires stores, the catalog pipeline, the session state machine, the user
// providers and the gift dispatcher, and manages their lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/services/catalog"
	"github.com/kiddarkness/itemshop/internal/app/services/gift"
	"github.com/kiddarkness/itemshop/internal/app/services/sessions"
	"github.com/kiddarkness/itemshop/internal/app/services/users"
	"github.com/kiddarkness/itemshop/internal/app/storage"
	"github.com/kiddarkness/itemshop/internal/app/storage/memory"
	"github.com/kiddarkness/itemshop/internal/app/system"
	"github.com/kiddarkness/itemshop/internal/config"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Snapshots storage.SnapshotStore
	Sessions  storage.SessionStore
}

// Application ties the domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Catalog  *catalog.Service
	Sessions *sessions.Service
	Users    users.Provider
	Gifts    *gift.Dispatcher
}

// New builds a fully initialised application from the configuration.
func New(cfg config.Config, stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Snapshots == nil {
		stores.Snapshots = mem
	}
	if stores.Sessions == nil {
		stores.Sessions = mem
	}

	manager := system.NewManager()
	httpClient := &http.Client{Timeout: time.Duration(cfg.RequestTimeout)}

	catalogService := catalog.New(stores.Snapshots, log)
	fetcher, err := catalog.NewHTTPFetcher(httpClient, cfg.ShopURL, cfg.ShopLanguage, log)
	if err != nil {
		return nil, fmt.Errorf("configure catalog fetcher: %w", err)
	}
	catalogService.AttachFetcher(fetcher)

	sessionService := sessions.New(stores.Sessions, catalogService, cfg.CreatorCode, log)

	var provider users.Provider
	switch {
	case cfg.UserInfoURL != "":
		provider, err = users.NewBotInfoProvider(httpClient, cfg.UserInfoURL, log)
		if err != nil {
			return nil, fmt.Errorf("configure user-info provider: %w", err)
		}
	case cfg.FriendsBaseURL != "":
		provider, err = users.NewRosterProvider(httpClient, cfg.FriendsBaseURL, cfg.FriendsBalance, log)
		if err != nil {
			return nil, fmt.Errorf("configure friends roster provider: %w", err)
		}
	default:
		log.Warn("no user provider configured; gift dispatch disabled")
	}
	if provider != nil {
		sessionService.AttachProvider(provider)
	}

	var dispatcher *gift.Dispatcher
	if cfg.GiftURL != "" {
		dispatcher, err = gift.NewDispatcher(httpClient, cfg.GiftURL, log)
		if err != nil {
			return nil, fmt.Errorf("configure gift dispatcher: %w", err)
		}
		sessionService.AttachDispatcher(dispatcher)
	} else {
		log.Warn("GIFT_URL not set; gift dispatch disabled")
	}

	refresher := catalog.NewRefresher(catalogService, cfg.ShopRefresh, log)
	if err := manager.Register(refresher); err != nil {
		return nil, fmt.Errorf("register %s: %w", refresher.Name(), err)
	}

	return &Application{
		manager:  manager,
		log:      log,
		Catalog:  catalogService,
		Sessions: sessionService,
		Users:    provider,
		Gifts:    dispatcher,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
