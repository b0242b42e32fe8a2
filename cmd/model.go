package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"wifiscan/cache"
	"wifiscan/config"
	"wifiscan/history"
	"wifiscan/scanner"
	"wifiscan/view"
	"wifiscan/wifi"
)

const (
	filterMaxLength   = 100
	statusMsgTimeout  = 3 * time.Second
	manualScanTimeout = 30 * time.Second
	adapterTimeout    = 10 * time.Second
	minTableHeight    = 5
	tableChromeLines  = 4
)

type viewState int

const (
	viewTable viewState = iota
	viewDetails
)

func (v viewState) String() string {
	names := []string{"Table", "Details"}
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("Unknown(%d)", v)
}

// adapterLister enumerates scannable Wi-Fi interfaces.
type adapterLister interface {
	WifiAdapters(ctx context.Context) ([]string, error)
}

// =============================================================================
// Messages
// =============================================================================

type snapshotMsg scanner.Snapshot

type manualScanMsg struct {
	snap scanner.Snapshot
	err  error
}

type adaptersLoadedMsg struct {
	adapters []string
	err      error
}

type pollerStoppedMsg struct{}

type configChangedMsg struct {
	cfg *config.Config
	err error
}

type clearStatusMsg struct{}

// =============================================================================
// Model
// =============================================================================

type deps struct {
	cfg      *config.Config
	store    *config.Store
	poller   *scanner.Poller
	adapters adapterLister
	history  *history.Store
	proj     *view.Projector
	cache    *cache.Cache
	logger   *zap.Logger
}

type model struct {
	cfg      *config.Config
	store    *config.Store
	poller   *scanner.Poller
	adapters adapterLister
	history  *history.Store
	proj     *view.Projector
	cache    *cache.Cache
	logger   *zap.Logger

	state       viewState
	table       table.Model
	styles      table.Styles
	filterInput textinput.Model
	spinner     spinner.Model
	keys        keyMap
	help        help.Model

	rows        []wifi.Record
	selected    wifi.Record
	adapterList []string
	activeBSSID string
	lastScan    time.Time
	statusMsg   string

	isScanning  bool
	isStopping  bool
	isFiltering bool

	width  int
	height int
}

func newModel(d deps) model {
	t := table.New(
		table.WithColumns(tableColumns(view.NoColumn, true)),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	t.SetStyles(tableStyles())

	filterInput := textinput.New()
	filterInput.Placeholder = "Type to filter..."
	filterInput.CharLimit = filterMaxLength
	filterInput.Prompt = "/ "
	filterInput.Cursor.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = scanningStyle

	h := help.New()
	subtleStyle := lipgloss.NewStyle().Foreground(colorFaint)
	h.Styles = help.Styles{
		ShortKey:  subtleStyle,
		ShortDesc: subtleStyle,
		FullKey:   subtleStyle,
		FullDesc:  subtleStyle,
		Ellipsis:  subtleStyle,
	}

	m := model{
		cfg:         d.cfg,
		store:       d.store,
		poller:      d.poller,
		adapters:    d.adapters,
		history:     d.history,
		proj:        d.proj,
		cache:       d.cache,
		logger:      d.logger,
		state:       viewTable,
		table:       t,
		styles:      tableStyles(),
		filterInput: filterInput,
		spinner:     s,
		keys:        defaultKeyBindings,
		help:        h,
	}
	m.keys.currentState = m.state

	if m.cache != nil {
		snap, ok, err := m.cache.Load()
		switch {
		case err != nil:
			m.logger.Warn("ignoring unreadable cache", zap.Error(err))
		case ok:
			m.proj.Replace(snap.Records)
			m.activeBSSID = snap.ActiveBSSID
			m.lastScan = snap.ObservedAt
			m.refreshTable()
			m.logger.Info("loaded cached networks", zap.Int("networks", len(snap.Records)))
		}
	}

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadAdaptersCmd(m.adapters),
		waitForSnapshot(m.poller.Snapshots()),
	)
}

// =============================================================================
// Commands
// =============================================================================

func waitForSnapshot(ch <-chan scanner.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func loadAdaptersCmd(lister adapterLister) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adapterTimeout)
		defer cancel()
		adapters, err := lister.WifiAdapters(ctx)
		return adaptersLoadedMsg{adapters: adapters, err: err}
	}
}

func manualScanCmd(p *scanner.Poller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), manualScanTimeout)
		defer cancel()
		snap, err := p.ScanOnce(ctx)
		return manualScanMsg{snap: snap, err: err}
	}
}

// stopPollerCmd joins the loop off the UI goroutine, since Stop waits for
// any in-flight nmcli call.
func stopPollerCmd(p *scanner.Poller) tea.Cmd {
	return func() tea.Msg {
		p.Stop()
		return pollerStoppedMsg{}
	}
}

func saveSnapshotCmd(c *cache.Cache, snap scanner.Snapshot, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := c.Save(snap); err != nil {
			logger.Warn("failed to save cache", zap.Error(err))
		}
		return nil
	}
}

func saveConfigCmd(store *config.Store, cfg config.Config, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := store.Save(&cfg); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		}
		return nil
	}
}

func clearStatusAfterDelay() tea.Cmd {
	return tea.Tick(statusMsgTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (m *model) setStatus(msg string, style lipgloss.Style) {
	m.statusMsg = style.Render(msg)
}

func (m *model) clearStatus() {
	m.statusMsg = ""
}

// refreshTable rebuilds the visible rows from the projector, keeping the
// cursor on the same BSSID when it is still shown.
func (m *model) refreshTable() {
	var cursorBSSID string
	if c := m.table.Cursor(); c >= 0 && c < len(m.rows) {
		cursorBSSID = m.rows[c].BSSID
	}

	m.rows = m.proj.Rows()
	col, asc := m.proj.SortIndicator()
	m.table.SetColumns(tableColumns(col, asc))
	m.table.SetRows(tableRows(m.rows, m.activeBSSID))

	cursor := 0
	for i, rec := range m.rows {
		if rec.BSSID == cursorBSSID {
			cursor = i
			break
		}
	}
	if len(m.rows) > 0 {
		m.table.SetCursor(cursor)
	}
	m.syncSelectedStyle()
}

// syncSelectedStyle colours the highlighted row by the dBm grade of the
// record under the cursor.
func (m *model) syncSelectedStyle() {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return
	}
	m.styles = rowStyles(m.rows[c].SignalDbm())
	m.table.SetStyles(m.styles)
}

func (m *model) applySnapshot(snap scanner.Snapshot) tea.Cmd {
	m.proj.Replace(snap.Records)
	m.activeBSSID = snap.ActiveBSSID
	m.lastScan = snap.ObservedAt
	m.refreshTable()

	if m.state == viewDetails {
		for _, rec := range snap.Records {
			if rec.BSSID == m.selected.BSSID {
				m.selected = rec
				break
			}
		}
	}

	m.logger.Debug("applied snapshot",
		zap.String("adapter", snap.Adapter),
		zap.Int("networks", len(snap.Records)),
		zap.Int("rejected", snap.Rejected))

	if m.cache == nil {
		return nil
	}
	return saveSnapshotCmd(m.cache, snap, m.logger)
}

func (m *model) setFilter(f view.Filter) {
	m.proj.SetFilter(f)
	m.refreshTable()
}

// validAdapters drops the placeholder and p2p entries.
func validAdapters(names []string) []string {
	var out []string
	for _, n := range names {
		if wifi.ValidAdapter(n) {
			out = append(out, n)
		}
	}
	return out
}

// nextAdapter returns the adapter after current, wrapping around.
func nextAdapter(adapters []string, current string) string {
	if len(adapters) == 0 {
		return ""
	}
	for i, a := range adapters {
		if a == current {
			return adapters[(i+1)%len(adapters)]
		}
	}
	return adapters[0]
}

func (m *model) persistConfig() tea.Cmd {
	if m.store == nil || m.cfg == nil {
		return nil
	}
	m.cfg.Adapter = m.poller.Adapter()
	m.cfg.AutoRefresh = m.poller.Running()
	return saveConfigCmd(m.store, *m.cfg, m.logger)
}

func (m *model) resizeComponents() {
	availableHeight := m.height - appStyle.GetVerticalFrameSize()
	availableWidth := m.width - appStyle.GetHorizontalFrameSize()

	m.help.Width = availableWidth
	m.filterInput.Width = max(availableWidth-lipgloss.Width(m.filterInput.Prompt)-filterInputStyle.GetHorizontalFrameSize()-1, 10)

	headerHeight := lipgloss.Height(m.headerView(availableWidth))
	keys := m.keys
	keys.currentState = m.state
	footerHeight := lipgloss.Height(m.footerView(availableWidth, m.help.View(keys)))

	tableHeight := availableHeight - headerHeight - footerHeight - tableChromeLines
	if m.isFiltering {
		tableHeight -= 3
	}
	m.table.SetHeight(max(tableHeight, minTableHeight))
	m.table.SetWidth(availableWidth)
}

// =============================================================================
// Update
// =============================================================================

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.keys.currentState = m.state

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeComponents()
		return m, nil

	case spinner.TickMsg:
		if m.isScanning {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case clearStatusMsg:
		m.clearStatus()

	case snapshotMsg:
		cmds = append(cmds, m.applySnapshot(scanner.Snapshot(msg)), waitForSnapshot(m.poller.Snapshots()))

	case manualScanMsg:
		m.isScanning = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Scan failed: %v", msg.err), errorStyle)
		} else {
			cmds = append(cmds, m.applySnapshot(msg.snap))
			m.setStatus(fmt.Sprintf("Found %d networks", len(msg.snap.Records)), successStyle)
		}
		cmds = append(cmds, clearStatusAfterDelay())

	case adaptersLoadedMsg:
		cmds = append(cmds, m.handleAdaptersLoaded(msg)...)

	case pollerStoppedMsg:
		m.isStopping = false
		m.setStatus("Polling stopped", infoStyle)
		cmds = append(cmds, m.persistConfig(), clearStatusAfterDelay())

	case configChangedMsg:
		if msg.err != nil {
			m.logger.Warn("config reload failed", zap.Error(msg.err))
			m.setStatus(fmt.Sprintf("Config reload failed: %v", msg.err), errorStyle)
		} else {
			m.cfg = msg.cfg
			m.poller.SetInterval(msg.cfg.Interval())
			if wifi.ValidAdapter(msg.cfg.Adapter) {
				m.poller.SetAdapter(msg.cfg.Adapter)
			}
			m.logger.Info("config reloaded",
				zap.Duration("interval", msg.cfg.Interval()), zap.String("adapter", m.poller.Adapter()))
			m.setStatus("Configuration reloaded", infoStyle)
		}
		cmds = append(cmds, clearStatusAfterDelay())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleAdaptersLoaded(msg adaptersLoadedMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if msg.err != nil {
		m.logger.Error("failed to list adapters", zap.Error(msg.err))
		m.setStatus(fmt.Sprintf("Error listing adapters: %v", msg.err), errorStyle)
		cmds = append(cmds, clearStatusAfterDelay())
	}
	m.adapterList = validAdapters(msg.adapters)

	// A remembered adapter that is no longer present falls back to the first.
	if len(m.adapterList) > 0 && !slices.Contains(m.adapterList, m.poller.Adapter()) {
		if current := m.poller.Adapter(); wifi.ValidAdapter(current) {
			m.logger.Warn("configured adapter not found", zap.String("adapter", current))
		}
		m.poller.SetAdapter(m.adapterList[0])
	}
	if len(m.adapterList) == 0 && msg.err == nil {
		m.setStatus("No Wi-Fi adapters found", errorStyle)
	}
	m.logger.Info("adapters loaded",
		zap.Strings("adapters", m.adapterList), zap.String("selected", m.poller.Adapter()))

	if m.cfg != nil && m.cfg.AutoRefresh {
		m.poller.Start()
	}
	return cmds
}

func (m *model) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	if m.isFiltering {
		if msg.Type == tea.KeyCtrlC {
			return []tea.Cmd{tea.Quit}
		}
		return m.handleFilterKeys(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return []tea.Cmd{tea.Quit}
	}

	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		m.resizeComponents()
		return nil
	}

	switch m.state {
	case viewTable:
		return m.handleTableKeys(msg)
	case viewDetails:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Details) {
			m.state = viewTable
		}
	}
	return nil
}

func (m *model) handleFilterKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmd tea.Cmd
	f := m.proj.Filter()

	switch msg.String() {
	case "esc":
		m.isFiltering = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		f.Text = ""
		m.setFilter(f)
		m.resizeComponents()
		return nil

	case "enter":
		m.isFiltering = false
		m.filterInput.Blur()
		m.resizeComponents()
		return nil
	}

	m.filterInput, cmd = m.filterInput.Update(msg)
	f.Text = m.filterInput.Value()
	m.setFilter(f)
	return []tea.Cmd{cmd}
}

func (m *model) handleTableKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Back):
		f := m.proj.Filter()
		if f.Text != "" {
			f.Text = ""
			m.filterInput.SetValue("")
			m.setFilter(f)
		}

	case key.Matches(msg, m.keys.Filter):
		m.isFiltering = true
		m.filterInput.SetValue(m.proj.Filter().Text)
		m.filterInput.Focus()
		m.resizeComponents()
		cmds = append(cmds, textinput.Blink)

	case key.Matches(msg, m.keys.Sort):
		col := view.Column(msg.Runes[0] - '0')
		if view.Sortable(col) {
			m.proj.SortBy(col)
			m.refreshTable()
		}

	case key.Matches(msg, m.keys.Toggle24):
		f := m.proj.Filter()
		f.Show24 = !f.Show24
		m.setFilter(f)

	case key.Matches(msg, m.keys.Toggle5):
		f := m.proj.Filter()
		f.Show5 = !f.Show5
		m.setFilter(f)

	case key.Matches(msg, m.keys.Adapter):
		next := nextAdapter(m.adapterList, m.poller.Adapter())
		if next == "" {
			m.setStatus("No Wi-Fi adapters found", errorStyle)
		} else {
			m.poller.SetAdapter(next)
			m.setStatus("Adapter: "+next, infoStyle)
			cmds = append(cmds, m.persistConfig())
		}
		cmds = append(cmds, clearStatusAfterDelay())

	case key.Matches(msg, m.keys.Poll):
		if m.isStopping {
			return nil
		}
		if m.poller.Running() {
			m.isStopping = true
			m.setStatus("Stopping...", infoStyle)
			cmds = append(cmds, stopPollerCmd(m.poller))
		} else {
			m.poller.Start()
			m.setStatus(fmt.Sprintf("Polling every %s", m.poller.Interval()), successStyle)
			cmds = append(cmds, m.persistConfig(), clearStatusAfterDelay())
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.isScanning {
			return nil
		}
		m.isScanning = true
		m.setStatus("Scanning...", infoStyle)
		cmds = append(cmds, manualScanCmd(m.poller), m.spinner.Tick)

	case key.Matches(msg, m.keys.Details):
		if c := m.table.Cursor(); c >= 0 && c < len(m.rows) {
			m.selected = m.rows[c]
			m.state = viewDetails
		}

	default:
		m.table, cmd = m.table.Update(msg)
		m.syncSelectedStyle()
		cmds = append(cmds, cmd)
	}

	return cmds
}
