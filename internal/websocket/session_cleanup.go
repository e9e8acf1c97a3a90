package websocket

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultIdleTimeout is how long a socket may stay silent before it is closed
const DefaultIdleTimeout = 30 * time.Minute

// SessionCleanupService periodically closes sockets that have gone idle,
// releasing the conversation each one holds.
type SessionCleanupService struct {
	hub      *Hub
	maxIdle  time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSessionCleanupService creates a new session cleanup service.
// A non-positive maxIdle selects DefaultIdleTimeout.
func NewSessionCleanupService(hub *Hub, maxIdle time.Duration, logger *zap.Logger) *SessionCleanupService {
	if maxIdle <= 0 {
		maxIdle = DefaultIdleTimeout
	}

	interval := maxIdle / 4
	if interval < time.Second {
		interval = time.Second
	}

	return &SessionCleanupService{
		hub:      hub,
		maxIdle:  maxIdle,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background cleanup process
func (s *SessionCleanupService) Start() {
	go s.cleanupLoop()
	s.logger.Info("Session cleanup service started",
		zap.Duration("maxIdle", s.maxIdle),
		zap.Duration("interval", s.interval))
}

// Stop gracefully stops the cleanup service. It is safe to call more than once.
func (s *SessionCleanupService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.logger.Info("Session cleanup service stopped")
	})
}

func (s *SessionCleanupService) cleanupLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

func (s *SessionCleanupService) runCleanup() int {
	closed := s.hub.CloseIdle(s.maxIdle)
	if closed > 0 {
		s.logger.Info("Closed idle sessions", zap.Int("closed", closed))
	}
	return closed
}
