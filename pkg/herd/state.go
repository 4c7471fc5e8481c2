package herd

import (
	"sync"

	"github.com/twaclaw/cowtracker-app/pkg/models"
)

// DeviceState is the in-memory runtime state of one tracker. It is a
// cache over the measurement store, never a source of truth: it can be
// rebuilt at any time by replaying the store. All fields are guarded by
// mu; a measurement and a sweep for the same device never evaluate
// concurrently.
type DeviceState struct {
	Deveui int64

	mu    sync.Mutex
	last  *models.Meas
	conds map[models.ConditionKind]*condState
}

func newDeviceState(deveui int64) *DeviceState {
	return &DeviceState{
		Deveui: deveui,
		conds:  make(map[models.ConditionKind]*condState),
	}
}

func (ds *DeviceState) cond(kind models.ConditionKind) *condState {
	cs, ok := ds.conds[kind]
	if !ok {
		cs = &condState{}
		ds.conds[kind] = cs
	}
	return cs
}

// Last returns the newest accepted measurement, or nil for a device that
// has never reported.
func (ds *DeviceState) Last() *models.Meas {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.last
}

// StateStore maps device identity to runtime state. The outer map is
// guarded by its own mutex; per-device work serializes on the device
// mutex so different devices proceed in parallel.
type StateStore struct {
	mu      sync.RWMutex
	devices map[int64]*DeviceState
}

func NewStateStore() *StateStore {
	return &StateStore{devices: make(map[int64]*DeviceState)}
}

func (s *StateStore) Get(deveui int64) (*DeviceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.devices[deveui]
	return ds, ok
}

func (s *StateStore) GetOrCreate(deveui int64) *DeviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.devices[deveui]
	if !ok {
		ds = newDeviceState(deveui)
		s.devices[deveui] = ds
	}
	return ds
}

// ListAll returns a snapshot of every known device identity, for use by
// the silence sweeper.
func (s *StateStore) ListAll() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.devices))
	for deveui := range s.devices {
		ids = append(ids, deveui)
	}
	return ids
}
