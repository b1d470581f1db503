package conf

import (
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

// setViperKeys overrides viper values for one test and clears them afterwards
// so the package-global viper state does not leak between tests.
func setViperKeys(t *testing.T, keys map[string]any) {
	t.Helper()
	for k, v := range keys {
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k := range keys {
			viper.Set(k, nil)
		}
	})
}

func TestApplyConfigChange_Interval(t *testing.T) {
	s := testSettings()
	setViperKeys(t, map[string]any{"weather.pollinterval": 45})

	summary := applyConfigChange(s)

	assert.True(t, summary.IntervalChanged)
	assert.False(t, summary.DisplayChanged)
	assert.False(t, summary.RestartRequired)
	assert.Equal(t, 45, s.GetPollInterval())
}

func TestApplyConfigChange_IntervalBelowMinimumIgnored(t *testing.T) {
	s := testSettings()
	setViperKeys(t, map[string]any{"weather.pollinterval": 0})

	summary := applyConfigChange(s)

	assert.False(t, summary.any())
	assert.Equal(t, 30, s.GetPollInterval())
}

func TestApplyConfigChange_LanguageNeedsRestart(t *testing.T) {
	s := testSettings()
	setViperKeys(t, map[string]any{"weather.language": "fr"})

	summary := applyConfigChange(s)

	assert.True(t, summary.RestartRequired)
	// The running process keeps the language it started with
	assert.Equal(t, "en", s.Weather.Language)
}

func TestApplyConfigChange_Display(t *testing.T) {
	s := testSettings()
	setViperKeys(t, map[string]any{
		"display.traytype":      "temp",
		"display.fontsize":      18,
		"display.notifications": true,
	})

	summary := applyConfigChange(s)

	assert.True(t, summary.DisplayChanged)
	display := s.GetDisplay()
	assert.Equal(t, "temp", display.TrayType)
	assert.True(t, display.Notifications)
}

func TestApplyConfigChange_InvalidTrayTypeIgnored(t *testing.T) {
	s := testSettings()
	setViperKeys(t, map[string]any{"display.traytype": "banner"})

	summary := applyConfigChange(s)

	assert.False(t, summary.DisplayChanged)
	assert.Equal(t, "icon&temp", s.GetDisplay().TrayType)
}

func TestApplyConfigChange_NoChanges(t *testing.T) {
	s := testSettings()

	summary := applyConfigChange(s)

	assert.False(t, summary.any())
}

// Settings fields the watcher rewrites are read from the scheduler and tray
// goroutines; the accessors must hold the lock on both sides.
func TestSettingsConcurrentAccess(t *testing.T) {
	s := testSettings()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.SetPollInterval(1 + i%60)
			s.SetDisplay(DisplaySettings{TrayType: "icon", FontSize: 18})
			s.SetCities(CityListSettings{Primary: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = s.GetPollInterval()
			_ = s.GetDisplay()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_, _ = s.GetUnits()
		}
	}()
	wg.Wait()

	assert.GreaterOrEqual(t, s.GetPollInterval(), 1)
}
