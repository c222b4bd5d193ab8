// Package shoplist is an offline-first client SDK for the shopping list API.
// All reads and writes go against a local SQLite store and return
// immediately; a background sync engine reconciles the store with the server
// whenever it is reachable. Construct an SDK with New, call Start, and use
// the list operations; subscribers receive batched change notifications as
// sync rounds land.
package shoplist

import (
	"context"
	"fmt"
	"time"

	"github.com/tilbuda/go-shoplist-sdk/internal/config"
	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/internal/network"
	"github.com/tilbuda/go-shoplist-sdk/internal/session"
	"github.com/tilbuda/go-shoplist-sdk/internal/store"
	"github.com/tilbuda/go-shoplist-sdk/internal/syncer"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// Response cache bounds. Entries only serve 304 replies, so both can stay
// small.
const (
	cacheEntries = 128
	cacheTTL     = 10 * time.Minute
)

// ListsListener re-exports the engine's list subscriber interface.
type ListsListener = syncer.ListsListener

// ItemsListener re-exports the engine's item subscriber interface.
type ItemsListener = syncer.ItemsListener

// SDK owns every moving part: config, logger, store, request queue,
// dispatcher pool, session manager and sync engine. One SDK value per
// process; all methods are safe for concurrent use.
type SDK struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *store.DB
	store    *store.Repositories
	net      network.Network
	queue    *network.Queue
	cache    *network.Cache
	disp     *network.Dispatcher
	session  *session.Manager
	delivery *network.SerialDelivery
	engine   *syncer.Engine
}

// New builds an SDK from configuration loaded out of the environment and the
// optional JSON config file.
func New(ctx context.Context) (*SDK, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig builds an SDK from an explicit configuration. The database is
// opened and migrated here; network activity starts only at Start.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*SDK, error) {
	log := logger.NewFile("shoplist", cfg.Log.File)

	db, err := store.NewConnectSQLite(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	net, err := network.NewHTTPNetwork(cfg.API.BaseURL, cfg.API.RequestTimeout, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	sess := session.NewManager(cfg.API, net, log)
	delivery := network.NewSerialDelivery()
	queue := network.NewQueue(delivery, log)
	sess.AttachQueue(queue)
	cache := network.NewCache(cacheEntries, cacheTTL)

	repos := store.NewRepositories(db)
	engine := syncer.NewEngine(repos, queue, sess, delivery, cfg.Sync, log)

	return &SDK{
		cfg:      cfg,
		log:      log,
		db:       db,
		store:    repos,
		net:      net,
		queue:    queue,
		cache:    cache,
		disp:     network.NewDispatcher(queue, net, cache, sess, log),
		session:  sess,
		delivery: delivery,
		engine:   engine,
	}, nil
}

// Start establishes a session (anonymous if nobody is logged in), starts the
// dispatcher pool and launches the sync loop. A session failure is not fatal:
// the SDK still works offline and the engine keeps retrying.
func (s *SDK) Start(ctx context.Context) error {
	if err := s.session.Ensure(ctx); err != nil {
		s.log.Warn().Err(err).Msg("could not establish session, starting offline")
	}

	s.disp.Start(s.cfg.API.Dispatchers)
	s.engine.Start(ctx)
	return nil
}

// Stop shuts everything down in dependency order: sync loop, queue and
// dispatchers, delivery executor, database. Blocks until in-flight work is
// delivered.
func (s *SDK) Stop() error {
	s.engine.Stop()
	s.disp.Stop()
	s.delivery.Stop()
	return s.db.Close()
}

// Login exchanges credentials for an authenticated session. Lists created
// while anonymous are migrated to the account by the next sync round.
func (s *SDK) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.session.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	s.cache.Clear()
	s.engine.SyncNow()
	return user, nil
}

// Logout tears down the server-side session and drops the response cache.
func (s *SDK) Logout(ctx context.Context) error {
	s.cache.Clear()
	return s.session.Logout(ctx)
}

// User returns the current session user; anonymous when nobody logged in.
func (s *SDK) User() models.User { return s.session.User() }

// SyncNow schedules a sync round immediately instead of waiting for the
// ticker.
func (s *SDK) SyncNow() { s.engine.SyncNow() }

// SubscribeLists registers a listener for batched list change notifications.
func (s *SDK) SubscribeLists(l ListsListener) { s.engine.RegisterListsListener(l) }

// SubscribeItems registers a listener for batched item change notifications.
func (s *SDK) SubscribeItems(l ItemsListener) { s.engine.RegisterItemsListener(l) }

// SubscribeFirstSync registers fn to run once the first full reconciliation
// after login has landed.
func (s *SDK) SubscribeFirstSync(fn func()) { s.engine.RegisterFirstSyncFunc(fn) }
