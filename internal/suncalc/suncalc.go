// Package suncalc calculates and caches sun event times for a location.
package suncalc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// SunEventTimes holds the calculated sun event times in local time
type SunEventTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// Daylight returns the duration between sunrise and sunset.
func (s SunEventTimes) Daylight() time.Duration {
	return s.Sunset.Sub(s.Sunrise)
}

// cacheEntry holds the cached sun event times for a given date
type cacheEntry struct {
	times SunEventTimes
	date  time.Time
}

// SunCalc handles caching and calculation of sun event times for one
// location. Create a new instance when the primary city changes.
type SunCalc struct {
	cache    map[string]cacheEntry
	lock     sync.RWMutex
	observer astral.Observer
}

// NewSunCalc creates a new SunCalc instance for the given coordinates.
func NewSunCalc(latitude, longitude float64) *SunCalc {
	return &SunCalc{
		cache:    make(map[string]cacheEntry),
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
	}
}

// GetSunEventTimes returns the sun event times for a given date, using the
// cache if available.
func (sc *SunCalc) GetSunEventTimes(date time.Time) (SunEventTimes, error) {
	dateKey := date.Format("2006-01-02")

	sc.lock.RLock()
	entry, exists := sc.cache[dateKey]
	sc.lock.RUnlock()

	if exists && entry.date.Equal(date) {
		return entry.times, nil
	}

	times, err := sc.calculateSunEventTimes(date)
	if err != nil {
		return SunEventTimes{}, err
	}

	sc.lock.Lock()
	sc.cache[dateKey] = cacheEntry{times: times, date: date}
	sc.lock.Unlock()

	return times, nil
}

// calculateSunEventTimes calculates the sun event times for a given date
func (sc *SunCalc) calculateSunEventTimes(date time.Time) (SunEventTimes, error) {
	civilDawn, err := astral.Dawn(sc.observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}

	sunrise, err := astral.Sunrise(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}

	sunset, err := astral.Sunset(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	civilDusk, err := astral.Dusk(sc.observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	return SunEventTimes{
		CivilDawn: civilDawn.Local(),
		Sunrise:   sunrise.Local(),
		Sunset:    sunset.Local(),
		CivilDusk: civilDusk.Local(),
	}, nil
}

// IsDaytime reports whether the given instant falls between sunrise and
// sunset, used to pick day or night icon variants when the weather API does
// not say.
func (sc *SunCalc) IsDaytime(t time.Time) bool {
	times, err := sc.GetSunEventTimes(t)
	if err != nil {
		// Without sun data assume daytime, the icon variant is cosmetic
		return true
	}
	return t.After(times.Sunrise) && t.Before(times.Sunset)
}
