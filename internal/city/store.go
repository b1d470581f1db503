// Package city holds the ordered list of configured cities, the primary city
// shown in the tray, and the most recent weather snapshot for each city.
package city

import (
	"sync"
	"time"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/errors"
	"github.com/dglent/meteo-go/internal/weather"
)

// Snapshot is the most recent fetch outcome for one city. A failed fetch
// keeps the previous weather data and only sets Err; the stale reading stays
// visible until a fetch succeeds again.
type Snapshot struct {
	Data      *weather.WeatherData // last successfully fetched data, nil before the first success
	FetchedAt time.Time            // when Data was applied
	Err       error                // last fetch error, nil after a success

	TempTrend     string  // "↗", "↘" or "" relative to the previous snapshot
	PressureTrend float64 // hPa delta relative to the previous snapshot
	TempChanged   bool    // true when the temperature moved on the last apply
}

// Stale reports whether the visible data predates a failed fetch.
func (s *Snapshot) Stale() bool {
	return s.Err != nil && s.Data != nil
}

// Store is the city list store. Snapshots are expected to be applied from a
// single event-loop goroutine; the mutex makes reads from other goroutines
// (tray menu, CLI) safe.
type Store struct {
	mu        sync.RWMutex
	cities    []conf.CityEntry
	primary   int // OpenWeatherMap id, 0 when the list is empty
	snapshots map[int]*Snapshot
}

// NewStore creates a store from the persisted city list settings.
func NewStore(cities conf.CityListSettings) *Store {
	s := &Store{
		cities:    make([]conf.CityEntry, len(cities.List)),
		primary:   cities.Primary,
		snapshots: make(map[int]*Snapshot),
	}
	copy(s.cities, cities.List)
	if s.primary == 0 && len(s.cities) > 0 {
		s.primary = s.cities[0].ID
	}
	return s
}

// Add appends a city to the list. Adding an id already present is rejected
// with a duplicate-entry error. The first added city becomes primary.
func (s *Store) Add(city conf.CityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cities {
		if s.cities[i].ID == city.ID {
			return errors.Newf("city %s (%d) is already in the list", city.Name, city.ID).
				Component("city").
				Category(errors.CategoryConflict).
				Context("id", city.ID).
				Build()
		}
	}

	s.cities = append(s.cities, city)
	if s.primary == 0 {
		s.primary = city.ID
	}
	return nil
}

// Remove deletes a city and its snapshot. Removing the last city leaves the
// store in the explicit empty-list state, which is not an error.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return errors.Newf("city %d not found", id).
			Component("city").
			Category(errors.CategoryNotFound).
			Context("id", id).
			Build()
	}

	s.cities = append(s.cities[:idx], s.cities[idx+1:]...)
	delete(s.snapshots, id)

	if s.primary == id {
		if len(s.cities) > 0 {
			s.primary = s.cities[0].ID
		} else {
			s.primary = 0
		}
	}
	return nil
}

// Move reorders a city to the given position, clamped to the list bounds.
func (s *Store) Move(id, newPos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return errors.Newf("city %d not found", id).
			Component("city").
			Category(errors.CategoryNotFound).
			Context("id", id).
			Build()
	}

	if newPos < 0 {
		newPos = 0
	}
	if newPos >= len(s.cities) {
		newPos = len(s.cities) - 1
	}

	entry := s.cities[idx]
	s.cities = append(s.cities[:idx], s.cities[idx+1:]...)
	s.cities = append(s.cities[:newPos], append([]conf.CityEntry{entry}, s.cities[newPos:]...)...)
	return nil
}

// SetPrimary designates the city rendered in the tray.
func (s *Store) SetPrimary(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return errors.Newf("city %d not found", id).
			Component("city").
			Category(errors.CategoryNotFound).
			Context("id", id).
			Build()
	}
	s.primary = id
	return nil
}

// Primary returns the primary city. ok is false in the empty-list state.
func (s *Store) Primary() (city conf.CityEntry, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(s.primary)
	if idx < 0 {
		return conf.CityEntry{}, false
	}
	return s.cities[idx], true
}

// Cities returns a copy of the ordered city list.
func (s *Store) Cities() []conf.CityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]conf.CityEntry, len(s.cities))
	copy(out, s.cities)
	return out
}

// Len returns the number of configured cities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cities)
}

// Settings exports the list and primary id for persistence alongside the
// other settings.
func (s *Store) Settings() conf.CityListSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]conf.CityEntry, len(s.cities))
	copy(list, s.cities)
	return conf.CityListSettings{Primary: s.primary, List: list}
}

// ApplySnapshot replaces the snapshot for a city wholesale and computes the
// temperature and pressure trends. Whichever result arrives last wins; a
// result for a removed city is dropped.
func (s *Store) ApplySnapshot(id int, data *weather.WeatherData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return
	}

	next := &Snapshot{
		Data:      data,
		FetchedAt: time.Now(),
	}

	if prev, ok := s.snapshots[id]; ok && prev.Data != nil {
		switch {
		case data.Temperature.Current > prev.Data.Temperature.Current:
			next.TempTrend = "↗"
			next.TempChanged = true
		case data.Temperature.Current < prev.Data.Temperature.Current:
			next.TempTrend = "↘"
			next.TempChanged = true
		default:
			// Unchanged temperature keeps the previous arrow
			next.TempTrend = prev.TempTrend
		}
		next.PressureTrend = float64(data.Pressure - prev.Data.Pressure)
	}

	s.snapshots[id] = next
}

// MarkFailed records a fetch failure without clearing the previous data.
func (s *Store) MarkFailed(id int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return
	}

	prev, ok := s.snapshots[id]
	if !ok {
		s.snapshots[id] = &Snapshot{Err: err}
		return
	}

	next := *prev
	next.Err = err
	next.TempChanged = false
	s.snapshots[id] = &next
}

// Snapshot returns the snapshot for a city, or nil when none has been applied.
func (s *Store) Snapshot(id int) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[id]
}

// PrimarySnapshot returns the primary city together with its snapshot.
func (s *Store) PrimarySnapshot() (city conf.CityEntry, snap *Snapshot, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(s.primary)
	if idx < 0 {
		return conf.CityEntry{}, nil, false
	}
	return s.cities[idx], s.snapshots[s.primary], true
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id int) int {
	for i := range s.cities {
		if s.cities[i].ID == id {
			return i
		}
	}
	return -1
}
