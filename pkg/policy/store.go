package policy

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Store holds the active ThresholdConfig behind an atomic pointer.
//
// Readers call Active and always observe a fully-consistent snapshot: a
// reload swaps the pointer once, after the replacement document has been
// parsed and validated in full. There is no window in which a reader can see
// a half-updated configuration.
type Store struct {
	active atomic.Pointer[ThresholdConfig]
	logger *slog.Logger

	// reloadMu serializes writers. Readers never take it.
	reloadMu sync.Mutex
}

// NewStore creates a store with the given initial configuration. The initial
// configuration must already be validated (Load and Parse validate).
func NewStore(initial *ThresholdConfig) *Store {
	s := &Store{
		logger: slog.Default().With("component", "policy.store"),
	}
	s.active.Store(initial)
	return s
}

// Active returns the currently active snapshot. The returned config must be
// treated as immutable.
func (s *Store) Active() *ThresholdConfig {
	return s.active.Load()
}

// Version returns the active snapshot's version string.
func (s *Store) Version() string {
	return s.Active().Version
}

// Reload validates the replacement document and atomically swaps it in.
// On validation failure the active configuration is left untouched and the
// error is returned. Reload is idempotent: reloading the active document is
// a no-op swap.
func (s *Store) Reload(replacement *ThresholdConfig) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if err := Validate(replacement, "reload"); err != nil {
		s.logger.Error("threshold reload rejected, previous config retained",
			"active_version", s.Version(),
			"error", err,
		)
		return err
	}

	previous := s.active.Swap(replacement)

	s.logger.Info("threshold config reloaded",
		"previous_version", previous.Version,
		"version", replacement.Version,
	)
	return nil
}

// ReloadFromFile loads a replacement document from disk and swaps it in.
// Parse or validation failures leave the active configuration in force.
func (s *Store) ReloadFromFile(path string) error {
	replacement, err := Load(path)
	if err != nil {
		s.logger.Error("threshold reload from file rejected, previous config retained",
			"path", path,
			"active_version", s.Version(),
			"error", err,
		)
		return err
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	previous := s.active.Swap(replacement)
	s.logger.Info("threshold config reloaded from file",
		"path", path,
		"previous_version", previous.Version,
		"version", replacement.Version,
	)
	return nil
}
