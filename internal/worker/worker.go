package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
)

const (
	lockTTL = 2 * time.Minute
)

// Refresher re-fetches the data of one kind.
type Refresher interface {
	Refresh(ctx context.Context, kind gamedata.Kind) error
}

// Worker keeps the shared cache warm by refreshing every kind on an
// interval. When several workers share a cache, a lock per kind makes sure
// only one of them fetches it.
type Worker struct {
	id       string
	data     Refresher
	locker   services.Locker
	kinds    []gamedata.Kind
	interval time.Duration
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a new worker instance. locker may be nil for a single worker.
func New(data Refresher, locker services.Locker, kinds []gamedata.Kind, interval time.Duration, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:       workerID,
		data:     data,
		locker:   locker,
		kinds:    kinds,
		interval: interval,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start refreshes immediately and then on every tick until Stop is called.
func (w *Worker) Start() error {
	defer close(w.done)
	w.log.Info("Worker starting", "worker_id", w.id, "interval", w.interval, "kinds", w.kinds)

	w.refreshAll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		case <-ticker.C:
			w.refreshAll()
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// Done is closed once Start has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// refreshAll refreshes every kind and returns how many were fetched by this
// worker. Failures are logged and do not stop the remaining kinds.
func (w *Worker) refreshAll() int {
	refreshed := 0
	for _, kind := range w.kinds {
		if w.ctx.Err() != nil {
			break
		}
		ok, err := w.refreshKind(kind)
		if err != nil {
			w.log.Error("Error refreshing game data", "error", err, "kind", kind, "worker_id", w.id)
			continue
		}
		if ok {
			refreshed++
		}
	}
	return refreshed
}

func (w *Worker) refreshKind(kind gamedata.Kind) (bool, error) {
	if w.locker != nil {
		key := services.LockKey("refresh:" + string(kind))
		locked, err := w.locker.AcquireLock(w.ctx, key, w.id, lockTTL)
		if err != nil {
			return false, fmt.Errorf("failed to acquire refresh lock: %w", err)
		}
		if !locked {
			w.log.Debug("Refresh already running elsewhere", "kind", kind, "worker_id", w.id)
			return false, nil
		}
		defer func() {
			if err := w.locker.ReleaseLock(context.Background(), key, w.id); err != nil {
				w.log.Error("Failed to release refresh lock", "error", err, "kind", kind)
			}
		}()
	}

	start := time.Now()
	if err := w.data.Refresh(w.ctx, kind); err != nil {
		return false, err
	}
	w.log.Info("Game data refreshed", "kind", kind, "worker_id", w.id, "duration", time.Since(start))
	return true, nil
}
