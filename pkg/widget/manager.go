package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/ports"
)

// Manager binds counter instances to a CounterStore so that an instance
// outlives a single request.
type Manager struct {
	store       ports.CounterStore
	logger      *slog.Logger
	onIncrement func(id string, count int64)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIncrementHook registers a callback run after every increment.
func WithIncrementHook(fn func(id string, count int64)) ManagerOption {
	return func(m *Manager) {
		m.onIncrement = fn
	}
}

// NewManager creates a manager over store.
func NewManager(store ports.CounterStore, opts ...ManagerOption) *Manager {
	m := &Manager{store: store}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Mount creates the instance at 0, or returns the existing one.
func (m *Manager) Mount(ctx context.Context, id string) (domain.CounterState, error) {
	if err := validateID(id); err != nil {
		return domain.CounterState{}, err
	}
	count, err := m.store.Mount(ctx, id)
	if err != nil {
		return domain.CounterState{}, fmt.Errorf("mount counter %s: %w", id, err)
	}
	m.logger.Debug("Counter mounted", "counter_id", id, "count", count)
	return domain.CounterState{ID: id, Count: count}, nil
}

// Get returns the state of a mounted instance.
func (m *Manager) Get(ctx context.Context, id string) (domain.CounterState, error) {
	if err := validateID(id); err != nil {
		return domain.CounterState{}, err
	}
	count, err := m.store.Load(ctx, id)
	if err != nil {
		return domain.CounterState{}, fmt.Errorf("load counter %s: %w", id, err)
	}
	return domain.CounterState{ID: id, Count: count}, nil
}

// Increment applies the increment action to an instance.
func (m *Manager) Increment(ctx context.Context, id string) (domain.CounterState, error) {
	if err := validateID(id); err != nil {
		return domain.CounterState{}, err
	}
	count, err := m.store.Increment(ctx, id)
	if err != nil {
		return domain.CounterState{}, fmt.Errorf("increment counter %s: %w", id, err)
	}
	m.logger.Debug("Counter incremented", "counter_id", id, "count", count)
	if m.onIncrement != nil {
		m.onIncrement(id, count)
	}
	return domain.CounterState{ID: id, Count: count}, nil
}

// Unmount tears the instance down, discarding its state.
func (m *Manager) Unmount(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("unmount counter %s: %w", id, err)
	}
	m.logger.Debug("Counter unmounted", "counter_id", id)
	return nil
}

// List returns the IDs of mounted instances.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// MaxIDLength bounds counter instance IDs.
const MaxIDLength = 128

// ErrInvalidID is returned for empty or oversized instance IDs.
var ErrInvalidID = errors.New("invalid counter id")

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidID, MaxIDLength)
	}
	return nil
}
