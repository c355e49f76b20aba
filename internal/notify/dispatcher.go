// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink delivers events to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, event *Event) error
}

// Config holds dispatcher configuration.
type Config struct {
	Workers     int           // Number of concurrent delivery workers
	QueueSize   int           // Buffered events before new ones are dropped
	SendTimeout time.Duration // Per-sink deadline for one event
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:     3,
		QueueSize:   100,
		SendTimeout: 30 * time.Second,
	}
}

// Dispatcher fans events out to sinks from a fixed worker pool. Notify
// never blocks: events are dropped with a warning when the queue is full
// or the dispatcher is not running. Sink failures are logged only.
type Dispatcher struct {
	sinks   []Sink
	logger  *slog.Logger
	queue   chan *Event
	workers int
	timeout time.Duration
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// NewDispatcher creates a new dispatcher delivering to sinks.
func NewDispatcher(logger *slog.Logger, cfg Config, sinks ...Sink) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		sinks:   sinks,
		logger:  logger,
		queue:   make(chan *Event, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.SendTimeout,
		done:    make(chan struct{}),
	}
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	d.logger.Info("starting notification dispatcher", "workers", d.workers, "sinks", names)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops accepting events, delivers what is already queued and waits
// for the workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info("stopping notification dispatcher")
	close(d.done)
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

// Notify queues event for delivery and reports whether it was accepted.
func (d *Dispatcher) Notify(event *Event) bool {
	if d == nil || event == nil {
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		d.logger.Warn("dispatcher not running, dropping event", "event_type", event.Type)
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.logger.Warn("notification queue full, dropping event", "event_type", event.Type)
		return false
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	d.logger.Debug("notification worker started", "worker_id", id)

	for {
		select {
		case <-d.done:
			d.drain(ctx)
			d.logger.Debug("notification worker stopping", "worker_id", id)
			return
		case <-ctx.Done():
			d.logger.Debug("notification worker context cancelled", "worker_id", id)
			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

// drain delivers events still buffered when Stop was called.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case event := <-d.queue:
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event *Event) {
	for _, sink := range d.sinks {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		err := sink.Send(sendCtx, event)
		cancel()
		if err != nil {
			d.logger.Warn("notification delivery failed",
				"sink", sink.Name(),
				"event_type", event.Type,
				"error", err)
			continue
		}
		d.logger.Debug("notification delivered", "sink", sink.Name(), "event_type", event.Type)
	}
}
