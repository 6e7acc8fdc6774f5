package cleanup

import (
	"log"
	"sync"
	"time"

	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
)

const defaultInterval = 10 * time.Minute

type Worker struct {
	SessionManager *session.Manager
	Disconnector   session.Disconnector
	Interval       time.Duration
	IdleTimeout    time.Duration

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewWorker builds the idle-session sweeper. dc may be nil when no socket
// transport is running.
func NewWorker(sm *session.Manager, dc session.Disconnector, interval, idleTimeout time.Duration) *Worker {
	if interval <= 0 {
		log.Printf("[CLEANUP] Invalid interval %v, using %v", interval, defaultInterval)
		interval = defaultInterval
	}
	return &Worker{
		SessionManager: sm,
		Disconnector:   dc,
		Interval:       interval,
		IdleTimeout:    idleTimeout,
		stop:           make(chan struct{}),
	}
}

// Start initiates the background ticker
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.RunOnce()
			case <-w.stop:
				return
			}
		}
	}()
	log.Printf("[CLEANUP] Background worker started (every %v, idle timeout %v)", w.Interval, w.IdleTimeout)
}

// Stop ends the ticker loop and waits for a running pass to finish.
func (w *Worker) Stop() {
	w.once.Do(func() {
		close(w.stop)
	})
	w.wg.Wait()
	log.Println("[CLEANUP] Background worker stopped")
}

// RunOnce evicts idle sessions, closes their sockets and returns how many went.
func (w *Worker) RunOnce() int {
	removed := w.SessionManager.CleanupIdleSessions(w.IdleTimeout)
	if w.Disconnector != nil {
		for _, sessionID := range removed {
			w.Disconnector.DisconnectSession(sessionID, "Session expired after inactivity")
		}
	}
	if len(removed) > 0 {
		log.Printf("[CLEANUP] Removed %d idle sessions, %d still active", len(removed), w.SessionManager.Count())
	}
	return len(removed)
}
