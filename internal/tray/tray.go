package tray

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/getlantern/systray"

	"github.com/dglent/meteo-go/internal/city"
	"github.com/dglent/meteo-go/internal/conf"
)

// maxCitySlots is the number of pre-allocated city menu entries. systray
// cannot remove menu items, so unused slots are hidden.
const maxCitySlots = 20

const appTitle = "meteo-go"

// Actions are the callbacks the presenter wires into the menu.
type Actions struct {
	Refresh    func()    // manual refresh
	SelectCity func(int) // switch the primary city by id
	Quit       func()    // shut the application down
}

// Presenter owns the systray surface. It is a rendering projection of the
// city store; all weather logic stays outside.
type Presenter struct {
	settings *conf.Settings
	store    *city.Store
	icons    *IconCache
	actions  Actions
	logger   *slog.Logger

	refreshItem  *systray.MenuItem
	settingsItem *systray.MenuItem
	aboutItem    *systray.MenuItem
	quitItem     *systray.MenuItem
	emptyItem    *systray.MenuItem

	citySlots [maxCitySlots]*systray.MenuItem

	slotMu  sync.RWMutex
	slotIDs [maxCitySlots]int

	lastNotifiedCity int
	stop             chan struct{}
}

// NewPresenter creates the tray presenter. Run must be called from the main
// goroutine.
func NewPresenter(settings *conf.Settings, store *city.Store, icons *IconCache, actions Actions, logger *slog.Logger) *Presenter {
	return &Presenter{
		settings: settings,
		store:    store,
		icons:    icons,
		actions:  actions,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Run starts the system tray loop. It blocks the calling goroutine until
// Quit is called; onReady runs once the tray is up (start the scheduler
// there).
func (p *Presenter) Run(onReady func()) {
	systray.Run(func() {
		p.buildMenu()
		p.Update()
		if onReady != nil {
			onReady()
		}
	}, p.onExit)
}

// Quit signals the tray to exit.
func (p *Presenter) Quit() {
	systray.Quit()
}

func (p *Presenter) onExit() {
	close(p.stop)
	if p.actions.Quit != nil {
		p.actions.Quit()
	}
}

func (p *Presenter) buildMenu() {
	systray.SetTitle(appTitle)
	systray.SetTooltip(tooltipFetching)

	// Pre-allocate city entries, hidden until the list fills them
	for i := 0; i < maxCitySlots; i++ {
		p.citySlots[i] = systray.AddMenuItem("", "Show this city in the tray")
		p.citySlots[i].Hide()
		go p.watchCitySlot(i)
	}
	p.emptyItem = systray.AddMenuItem("Empty list", "")
	p.emptyItem.Disable()

	systray.AddSeparator()

	p.refreshItem = systray.AddMenuItem("Refresh", "Fetch weather data now")
	p.settingsItem = systray.AddMenuItem("Settings", "Show the current configuration")
	p.aboutItem = systray.AddMenuItem("About", "")
	p.quitItem = systray.AddMenuItem("Quit", "Exit meteo-go")

	go p.handleClicks()
}

func (p *Presenter) watchCitySlot(slot int) {
	for {
		select {
		case <-p.citySlots[slot].ClickedCh:
			p.slotMu.RLock()
			id := p.slotIDs[slot]
			p.slotMu.RUnlock()
			if id != 0 && p.actions.SelectCity != nil {
				p.actions.SelectCity(id)
			}
		case <-p.stop:
			return
		}
	}
}

func (p *Presenter) handleClicks() {
	for {
		select {
		case <-p.refreshItem.ClickedCh:
			if p.actions.Refresh != nil {
				p.actions.Refresh()
			}
		case <-p.settingsItem.ClickedCh:
			p.showSettings()
		case <-p.aboutItem.ClickedCh:
			p.showAbout()
		case <-p.quitItem.ClickedCh:
			p.Quit()
		case <-p.stop:
			return
		}
	}
}

// Update re-renders the tray from the current store state. It must only be
// called from the application event loop goroutine; the notification
// bookkeeping is not synchronized.
func (p *Presenter) Update() {
	st := p.currentState()
	ts := Render(st)

	systray.SetTitle(ts.Label)
	systray.SetTooltip(ts.Tooltip)

	if ts.Icon != "" {
		if data, err := p.icons.Get(ts.Icon); err == nil {
			systray.SetIcon(data)
		} else {
			p.logger.Debug("Weather icon unavailable", "icon", ts.Icon, "error", err)
		}
	}

	p.updateCitiesMenu()

	if text := NotificationText(st, p.lastNotifiedCity); text != "" {
		if err := beeep.Notify(appTitle, text, notificationIcon(ts.Icon)); err != nil {
			p.logger.Debug("Desktop notification failed", "error", err)
		}
	}
	if st.HasCity {
		p.lastNotifiedCity = st.City.ID
	}
}

// ShowEmpty renders the explicit empty-list state. Wired to the scheduler's
// OnEmpty callback.
func (p *Presenter) ShowEmpty() {
	systray.SetTitle(appTitle)
	systray.SetTooltip(tooltipNoCity)
	p.updateCitiesMenu()
}

func (p *Presenter) currentState() State {
	units, windUnit := p.settings.GetUnits()
	st := State{
		Display:  p.settings.GetDisplay(),
		Units:    units,
		WindUnit: windUnit,
	}
	if entry, snap, ok := p.store.PrimarySnapshot(); ok {
		st.HasCity = true
		st.City = entry
		st.Snapshot = snap
	}
	return st
}

func (p *Presenter) updateCitiesMenu() {
	cities := p.store.Cities()
	primary, _ := p.store.Primary()

	p.slotMu.Lock()
	for i := range p.slotIDs {
		p.slotIDs[i] = 0
	}
	for i, c := range cities {
		if i >= maxCitySlots {
			break
		}
		p.slotIDs[i] = c.ID
	}
	p.slotMu.Unlock()

	for i := 0; i < maxCitySlots; i++ {
		p.citySlots[i].Hide()
	}

	if len(cities) == 0 {
		p.emptyItem.Show()
		return
	}
	p.emptyItem.Hide()

	for i, c := range cities {
		if i >= maxCitySlots {
			break
		}
		title := fmt.Sprintf("%s, %s", c.Name, c.Country)
		if c.ID == primary.ID {
			title = "● " + title
		}
		p.citySlots[i].SetTitle(title)
		p.citySlots[i].Show()
	}
}

// showSettings raises a notification summarizing the live configuration.
// Editing happens in the config file; the watcher picks changes up.
func (p *Presenter) showSettings() {
	units, windUnit := p.settings.GetUnits()
	display := p.settings.GetDisplay()
	body := fmt.Sprintf("Units: %s  Wind: %s\nInterval: %d min  Display: %s\nNotifications: %t\nEdit %s to change",
		units,
		windUnit,
		p.settings.GetPollInterval(),
		display.TrayType,
		display.Notifications,
		conf.ConfigFileDescription(),
	)
	if err := beeep.Notify(appTitle+" settings", body, ""); err != nil {
		p.logger.Debug("Desktop notification failed", "error", err)
	}
}

func (p *Presenter) showAbout() {
	body := fmt.Sprintf("%s\nWeather in the system tray.\nData: OpenWeatherMap", appTitle)
	if err := beeep.Notify("About "+appTitle, body, ""); err != nil {
		p.logger.Debug("Desktop notification failed", "error", err)
	}
}
