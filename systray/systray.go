package systray

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"markestedt/clipslots/metrics"
	"markestedt/clipslots/slots"
)

//go:embed assets/icon.ico
var defaultIcon []byte

// tooltipLength matches how much of a slot the dashboard shows on hover
const tooltipLength = 50

// SystrayManager shows slot occupancy in the system tray and clears a slot
// when its menu item is clicked
type SystrayManager struct {
	store    *slots.Store
	sampler  *metrics.Sampler // may be nil
	webPort  int              // 0 hides the web UI entry
	interval time.Duration
	iconData []byte

	ready    chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
}

// NewSystrayManager creates a new systray manager
func NewSystrayManager(store *slots.Store, sampler *metrics.Sampler, webPort int, interval time.Duration) *SystrayManager {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &SystrayManager{
		store:    store,
		sampler:  sampler,
		webPort:  webPort,
		interval: interval,
		iconData: defaultIcon,
		ready:    make(chan struct{}),
		quit:     make(chan struct{}),
	}
}

// Run starts the system tray (blocking call). On some platforms it must be
// called from the main goroutine.
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray. It must not be called before Ready is closed:
// until the tray window exists the quit request is lost and Run never returns.
func (m *SystrayManager) Stop() {
	m.shutdown()
	systray.Quit()
}

// Ready returns a channel that is closed once the tray is up
func (m *SystrayManager) Ready() <-chan struct{} {
	return m.ready
}

// WaitForQuit returns a channel that is closed when the user clicks Quit or
// Stop is called
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// shutdown ends the menu goroutines
func (m *SystrayManager) shutdown() {
	m.quitOnce.Do(func() { close(m.quit) })
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	systray.SetTitle("clipslots")
	systray.SetTooltip("clipslots - Ctrl+Shift+digit copy, Ctrl+Alt+digit paste")

	items := make([]*systray.MenuItem, slots.NumSlots)
	for i := range items {
		index := i + 1
		items[i] = systray.AddMenuItem(slots.Label(index), "Click to clear")
		go m.watchSlot(index, items[i])
	}

	systray.AddSeparator()

	var openWebUI <-chan struct{}
	if m.webPort > 0 {
		openWebUI = systray.AddMenuItem("Open Web UI", "Open the clipslots dashboard").ClickedCh
	}
	mQuit := systray.AddMenuItem("Quit", "Exit clipslots")

	go m.refreshLoop(items)

	// Handle menu clicks
	go func() {
		for {
			select {
			case <-openWebUI:
				m.openWebUI()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				m.Stop()
				return
			case <-m.quit:
				return
			}
		}
	}()

	close(m.ready)
}

// watchSlot resets the slot each time its menu item is clicked
func (m *SystrayManager) watchSlot(index int, item *systray.MenuItem) {
	for {
		select {
		case <-item.ClickedCh:
			if _, err := m.store.Reset(index); err != nil {
				slog.Error("Failed to reset slot", "slot", index, "error", err)
			}
			m.refreshItem(item, slotAt(m.store.Snapshot(), index))
		case <-m.quit:
			return
		}
	}
}

// refreshLoop polls the store and metrics on a fixed interval
func (m *SystrayManager) refreshLoop(items []*systray.MenuItem) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		snapshot := m.store.Snapshot()
		for i, item := range items {
			m.refreshItem(item, snapshot[i])
		}
		systray.SetTooltip(trayTooltip(snapshot, m.latestSample()))

		select {
		case <-ticker.C:
		case <-m.quit:
			return
		}
	}
}

func (m *SystrayManager) refreshItem(item *systray.MenuItem, slot slots.Slot) {
	title, tooltip := itemText(slot)
	item.SetTitle(title)
	item.SetTooltip(tooltip)
	if slot.Empty() {
		item.Uncheck()
		item.Disable()
	} else {
		item.Check()
		item.Enable()
	}
}

func (m *SystrayManager) latestSample() *metrics.Sample {
	if m.sampler == nil {
		return nil
	}
	s := m.sampler.Latest()
	if s.Time.IsZero() {
		return nil
	}
	return &s
}

func slotAt(snapshot []slots.Slot, index int) slots.Slot {
	return snapshot[index-1]
}

// itemText returns the menu title and tooltip for a slot
func itemText(slot slots.Slot) (string, string) {
	label := slots.Label(slot.Index)
	if slot.Empty() {
		return label, "Empty"
	}
	return label + ": " + truncate(slot.Content, tooltipLength), "Click to clear"
}

// trayTooltip summarizes occupancy and, if available, system load
func trayTooltip(snapshot []slots.Slot, sample *metrics.Sample) string {
	occupied := 0
	for _, s := range snapshot {
		if !s.Empty() {
			occupied++
		}
	}
	tip := fmt.Sprintf("clipslots - %d/%d slots in use", occupied, len(snapshot))
	if sample != nil {
		tip += "\n" + sample.String()
	}
	return tip
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

// openWebUI opens the web UI in the default browser
func (m *SystrayManager) openWebUI() {
	url := fmt.Sprintf("http://localhost:%d", m.webPort)
	slog.Info("Opening web UI", "url", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open web UI", "error", err)
	}
}
