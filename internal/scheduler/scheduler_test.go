package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dglent/meteo-go/internal/city"
	"github.com/dglent/meteo-go/internal/conf"
)

type recordingRequester struct {
	mu       sync.Mutex
	requests []int
}

func (r *recordingRequester) Request(c conf.CityEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, c.ID)
	return true
}

func (r *recordingRequester) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(cities ...conf.CityEntry) *city.Store {
	return city.NewStore(conf.CityListSettings{List: cities})
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestInitialTickRequestsAllCities(t *testing.T) {
	store := testStore(
		conf.CityEntry{ID: 1, Name: "Helsinki"},
		conf.CityEntry{ID: 2, Name: "London"},
	)
	req := &recordingRequester{}
	s := New(&conf.Settings{}, store, req, testLogger())
	s.intervalFn = func() time.Duration { return time.Hour }

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	waitFor(t, func() bool { return req.count() == 2 }, "initial tick did not fetch all cities")

	close(stop)
	<-done

	req.mu.Lock()
	defer req.mu.Unlock()
	assert.ElementsMatch(t, []int{1, 2}, req.requests)
}

func TestEmptyListIsNoOpAndSurfaced(t *testing.T) {
	store := testStore()
	req := &recordingRequester{}
	s := New(&conf.Settings{}, store, req, testLogger())
	s.intervalFn = func() time.Duration { return time.Hour }

	var emptyCalls atomic.Int32
	s.OnEmpty = func() { emptyCalls.Add(1) }

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	waitFor(t, func() bool { return emptyCalls.Load() >= 1 }, "empty state was not surfaced")
	assert.Equal(t, 0, req.count())

	close(stop)
	<-done
}

func TestManualRefresh(t *testing.T) {
	store := testStore(conf.CityEntry{ID: 1, Name: "Helsinki"})
	req := &recordingRequester{}
	s := New(&conf.Settings{}, store, req, testLogger())
	s.intervalFn = func() time.Duration { return time.Hour }

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	waitFor(t, func() bool { return req.count() == 1 }, "initial tick missing")

	s.Refresh()
	waitFor(t, func() bool { return req.count() == 2 }, "manual refresh did not tick")

	close(stop)
	<-done
}

func TestIntervalChangeAppliesOnNextTick(t *testing.T) {
	store := testStore(conf.CityEntry{ID: 1, Name: "Helsinki"})
	req := &recordingRequester{}
	s := New(&conf.Settings{}, store, req, testLogger())

	// Interval source switches from long to short, as a settings change would
	var interval atomic.Int64
	interval.Store(int64(time.Hour))
	s.intervalFn = func() time.Duration { return time.Duration(interval.Load()) }

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	waitFor(t, func() bool { return req.count() == 1 }, "initial tick missing")

	// Shorten the interval; the re-arm after the next (manual) tick picks it up
	interval.Store(int64(10 * time.Millisecond))
	s.Refresh()
	waitFor(t, func() bool { return req.count() >= 3 }, "shortened interval did not take effect")

	close(stop)
	<-done
}

func TestDefaultIntervalReadsLiveSettings(t *testing.T) {
	settings := &conf.Settings{Weather: conf.WeatherSettings{PollInterval: 30}}
	s := New(settings, testStore(), &recordingRequester{}, testLogger())

	assert.Equal(t, 30*time.Minute, s.intervalFn())

	// The config watcher writes the interval through the locked setter
	settings.SetPollInterval(5)
	assert.Equal(t, 5*time.Minute, s.intervalFn())
}

func TestIntervalReadSafeDuringRun(t *testing.T) {
	settings := &conf.Settings{Weather: conf.WeatherSettings{PollInterval: 60}}
	store := testStore(conf.CityEntry{ID: 1, Name: "Helsinki"})
	req := &recordingRequester{}
	s := New(settings, store, req, testLogger())

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	waitFor(t, func() bool { return req.count() >= 1 }, "initial tick missing")

	// Concurrent watcher-style rewrites while the loop re-arms its timer
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i < 200; i++ {
			settings.SetPollInterval(1 + i%90)
			s.Refresh()
		}
	}()
	<-writerDone

	close(stop)
	<-done
}

func TestStopTerminatesLoop(t *testing.T) {
	store := testStore(conf.CityEntry{ID: 1, Name: "Helsinki"})
	req := &recordingRequester{}
	s := New(&conf.Settings{}, store, req, testLogger())
	s.intervalFn = func() time.Duration { return time.Hour }

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	waitFor(t, func() bool { return req.count() == 1 }, "initial tick missing")
	close(stop)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "scheduler did not stop")
	}
}
