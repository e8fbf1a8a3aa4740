// Package cache keeps the costing snapshot in sync with the catalog database
// using PostgreSQL LISTEN/NOTIFY plus an optional periodic refresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appctx "procura/internal/core/context"
	"procura/internal/core/tx"
	"procura/internal/domain/costing"
	"procura/internal/infrastructure/storage/postgres"
	"procura/pkg/logger"
)

// DefaultChannel is the NOTIFY channel catalog triggers publish on.
const DefaultChannel = "catalog_changed"

// Auditor records reload outcomes.
type Auditor interface {
	Record(ctx context.Context, entry postgres.ReloadEntry) error
}

// Options configures a CatalogCache. Only Store and Source are required.
type Options struct {
	Store  *costing.Store
	Source costing.Source

	// Pool enables LISTEN on Channel. Nil disables notifications.
	Pool    *pgxpool.Pool
	Channel string

	// TxManager wraps each reload in a snapshot transaction when set.
	TxManager tx.ReadOnlyManager

	// Audit receives one entry per reload when set.
	Audit Auditor

	// RefreshInterval triggers periodic reloads when positive.
	RefreshInterval time.Duration

	Logger *logger.Logger
}

// CatalogCache reloads the costing store on demand, on NOTIFY and on a timer.
// Bursts of notifications collapse into a single reload.
type CatalogCache struct {
	opts Options
	log  *logger.Logger

	pending chan struct{}

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewCatalogCache creates a cache. Call Start to load and begin listening.
func NewCatalogCache(opts Options) *CatalogCache {
	if opts.Channel == "" {
		opts.Channel = DefaultChannel
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &CatalogCache{
		opts:    opts,
		log:     log.WithComponent("catalog_cache"),
		pending: make(chan struct{}, 1),
	}
}

// Store returns the store this cache maintains.
func (c *CatalogCache) Store() *costing.Store {
	return c.opts.Store
}

// Reload rebuilds the snapshot now. On failure the previous snapshot stays active.
func (c *CatalogCache) Reload(ctx context.Context, trigger postgres.ReloadTrigger) (*costing.Snapshot, error) {
	ctx = logger.WithLogger(ctx, c.log)
	started := time.Now()

	var wrap costing.LoadWrapper
	if c.opts.TxManager != nil {
		wrap = c.opts.TxManager.Snapshot
	}
	// The swap happens after commit, so a failed commit never goes live.
	snap, err := c.opts.Store.ReloadWithin(ctx, wrap, c.opts.Source)

	c.audit(ctx, trigger, snap, err)

	if err != nil {
		logger.Error(ctx, "catalog reload failed", "trigger", trigger, "error", err)
		return nil, fmt.Errorf("reload catalog: %w", err)
	}

	logger.Info(ctx, "catalog reloaded",
		"trigger", trigger,
		"generation", snap.Generation,
		"units", snap.Graph().Len(),
		"items", snap.ItemCount(),
		"diagnostics", len(snap.Diagnostics),
		"duration", time.Since(started),
	)
	for _, w := range snap.Diagnostics {
		logger.Warn(ctx, "catalog data problem", "code", w.Code, "message", w.Message, "details", w.Details)
	}
	return snap, nil
}

func (c *CatalogCache) audit(ctx context.Context, trigger postgres.ReloadTrigger, snap *costing.Snapshot, reloadErr error) {
	if c.opts.Audit == nil {
		return
	}

	entry := postgres.ReloadEntry{Trigger: trigger}
	if user := appctx.GetUser(ctx); user != nil {
		entry.UserID = user.UserID
	}
	if reloadErr != nil {
		entry.Failure = reloadErr.Error()
	}
	if snap != nil {
		entry.Generation = snap.Generation
		entry.UnitCount = snap.Graph().Len()
		entry.ItemCount = snap.ItemCount()
		diagnostics := snap.Diagnostics
		if diagnostics == nil {
			diagnostics = []costing.Warning{}
		}
		if raw, err := json.Marshal(diagnostics); err == nil {
			entry.Diagnostics = raw
		}
	}

	if err := c.opts.Audit.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "failed to record catalog reload", "error", err)
	}
}

// Start performs the initial load and starts background refresh.
// An initial load failure is returned and nothing is started.
func (c *CatalogCache) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(logger.WithLogger(ctx, c.log))
	c.started = true
	c.lifecycleMu.Unlock()

	if _, err := c.Reload(c.ctx, postgres.TriggerStartup); err != nil {
		c.Stop()
		return err
	}

	c.wg.Add(1)
	go c.reloadLoop()

	if c.opts.Pool != nil {
		c.wg.Add(1)
		go c.listenLoop()
	}

	logger.Info(c.ctx, "catalog cache started",
		"channel", c.opts.Channel,
		"listen", c.opts.Pool != nil,
		"refresh_interval", c.opts.RefreshInterval,
	)
	return nil
}

// Stop cancels background work and waits for it to finish.
func (c *CatalogCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	c.log.Info("catalog cache stopped")
}

// Invalidate schedules a reload. It never blocks.
func (c *CatalogCache) Invalidate() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// reloadLoop serializes notification-driven and periodic reloads.
func (c *CatalogCache) reloadLoop() {
	defer c.wg.Done()

	var tick <-chan time.Time
	if c.opts.RefreshInterval > 0 {
		ticker := time.NewTicker(c.opts.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.pending:
			_, _ = c.Reload(c.ctx, postgres.TriggerNotify)
		case <-tick:
			_, _ = c.Reload(c.ctx, postgres.TriggerInterval)
		}
	}
}

// listenLoop holds a dedicated connection in LISTEN and reconnects on failure.
func (c *CatalogCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		conn, err := c.opts.Pool.Acquire(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			c.sleep(time.Second)
			continue
		}

		_, err = conn.Exec(c.ctx, c.listenStatement())
		if err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "channel", c.opts.Channel, "error", err)
			conn.Release()
			c.sleep(time.Second)
			continue
		}

		logger.Info(c.ctx, "listening for catalog notifications", "channel", c.opts.Channel)

		// Changes made while disconnected were not delivered.
		c.Invalidate()
		c.waitForNotifications(conn)
		conn.Release()
	}
}

func (c *CatalogCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if timedOut {
				continue
			}
			logger.Warn(c.ctx, "notification wait failed, reconnecting", "error", err)
			return
		}

		logger.Debug(c.ctx, "received notification",
			"channel", notification.Channel,
			"payload", notification.Payload)
		c.Invalidate()
	}
}

func (c *CatalogCache) sleep(d time.Duration) {
	select {
	case <-c.ctx.Done():
	case <-time.After(d):
	}
}

// listenStatement returns the LISTEN command for the configured channel.
func (c *CatalogCache) listenStatement() string {
	return "LISTEN " + pgx.Identifier{c.opts.Channel}.Sanitize()
}
