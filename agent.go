package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"markestedt/clipslots/chord"
	"markestedt/clipslots/config"
	"markestedt/clipslots/keys"
	"markestedt/clipslots/metrics"
	"markestedt/clipslots/platform"
	"markestedt/clipslots/postprocess"
	"markestedt/clipslots/report"
	"markestedt/clipslots/slots"
	"markestedt/clipslots/storage"
	"markestedt/clipslots/web"
)

// Agent coordinates key listening, chord recognition and the slot store
type Agent struct {
	cfg      *config.Config
	listener platform.KeyListener
	engine   *chord.Engine
	store    *slots.Store
	db       *storage.DB
	sampler  *metrics.Sampler
	web      *web.Server
}

// NewAgent creates a new agent instance on the system keyboard and clipboard
func NewAgent(cfg *config.Config) (*Agent, error) {
	return newAgent(cfg, platform.NewKeyListener(), platform.NewSystemBridge())
}

func newAgent(cfg *config.Config, listener platform.KeyListener, bridge slots.Bridge) (*Agent, error) {
	store, err := slots.Open(slots.Options{
		Path:        cfg.SlotFile(),
		Bridge:      bridge,
		Pipeline:    postprocess.DefaultPipeline(),
		SettleDelay: cfg.ClipboardDelay(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	a := &Agent{
		cfg:      cfg,
		listener: listener,
		engine:   chord.NewEngine(),
		store:    store,
	}

	store.Subscribe(report.Stdout().Handle)

	if cfg.History.Enabled {
		db, err := storage.Open(cfg.Dir())
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		a.db = db
		store.Subscribe(a.recordChange)
	}

	if cfg.Metrics.IntervalMs > 0 {
		a.sampler = metrics.NewSampler(metrics.SystemReader(cfg.Metrics.DiskPath))
	}

	if cfg.Web.Enabled {
		a.web = web.NewServer(store, a.db, a.sampler, cfg, cfg.Web.Port)
		store.Subscribe(a.web.BroadcastChange)
	}

	return a, nil
}

// Store returns the slot store, for the presentation layers
func (a *Agent) Store() *slots.Store {
	return a.store
}

// Sampler returns the metrics sampler, nil when metrics are disabled
func (a *Agent) Sampler() *metrics.Sampler {
	return a.sampler
}

// Run starts the agent's main event loop
func (a *Agent) Run(ctx context.Context) error {
	defer a.close()

	if a.sampler != nil {
		go a.sampler.Run(ctx, a.cfg.MetricsInterval())
	}

	if a.web != nil {
		go func() {
			if err := a.web.Start(ctx); err != nil {
				slog.Error("Web server stopped", "error", err)
			}
		}()
	}

	events, err := a.listener.Listen(ctx)
	if err != nil {
		return fmt.Errorf("failed to start key listener: %w", err)
	}

	slog.Info("clipslots started", "slots", a.store.Path(), "copy", "ctrl+shift+digit", "paste", "ctrl+alt+digit")

	return a.process(ctx, events)
}

// process drives the chord engine from raw key events until ctx ends or
// the listener closes its channel
func (a *Agent) process(ctx context.Context, events <-chan platform.KeyEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-events:
			if !ok {
				return nil
			}
			a.handleKey(ctx, evt)
		}
	}
}

func (a *Agent) handleKey(ctx context.Context, evt platform.KeyEvent) {
	key := keys.Classify(evt.Key)
	if key.Kind == keys.Unclassified {
		return
	}

	ev := chord.Press(key)
	if evt.Type == platform.Released {
		ev = chord.Release(key)
	}

	act, fired := a.engine.Handle(ev)
	if !fired {
		return
	}

	slog.Debug("Chord completed", "action", act.String())
	a.dispatch(ctx, act)
}

func (a *Agent) dispatch(ctx context.Context, act chord.Action) {
	switch act.Type {
	case chord.Copy:
		if _, err := a.store.Copy(ctx, act.Slot()); err != nil {
			slog.Error("Copy failed", "slot", act.Slot(), "error", err)
		}
	case chord.Paste:
		if err := a.store.Paste(act.Slot()); err != nil && !errors.Is(err, slots.ErrEmptySlot) {
			slog.Error("Paste failed", "slot", act.Slot(), "error", err)
		}
	}
}

func (a *Agent) recordChange(c slots.Change) {
	if err := a.db.SaveAction(storage.NewAction(c.Kind.String(), c.Slot, c.Content, c.Time)); err != nil {
		slog.Warn("Failed to record action", "error", err)
	}
}

func (a *Agent) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("Failed to close history", "error", err)
		}
	}
}
