// Package ui provides the terminal schedule board. Bubbletea drives the
// event loop; the board reads the orchestrator directly on every render and
// shows orchestrator events as they arrive.
package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/zoo"
	"github.com/marcus/zooshift/internal/zooerr"
)

// Panel represents which panel is currently focused.
type Panel int

const (
	PanelZoo Panel = iota
	PanelTasks
	PanelEvents
)

const panelCount = 3

// maxEvents bounds the event feed.
const maxEvents = 500

// Feed collects orchestrator events for display. It is shared between the
// orchestrator's handler and the board, which bubbletea copies by value.
type Feed struct {
	mu     sync.Mutex
	events []orchestrator.Event
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Observe appends an event. It satisfies orchestrator.EventHandler.
func (f *Feed) Observe(e orchestrator.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	if len(f.events) > maxEvents {
		f.events = slices.Clone(f.events[len(f.events)-maxEvents:])
	}
}

// Events returns a snapshot of the feed, oldest first.
func (f *Feed) Events() []orchestrator.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.events)
}

// Len returns the number of buffered events.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// Model holds the board state.
type Model struct {
	width       int
	height      int
	activePanel Panel
	quitting    bool

	orch *orchestrator.Orchestrator
	feed *Feed

	dates   []string
	dateIdx int

	zooScroll    int
	selectedTask int
	eventScroll  int

	status    string
	statusErr bool

	styles *Styles
}

// Styles holds lipgloss styles for the board.
type Styles struct {
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style

	StatusOK      lipgloss.Style
	StatusWarn    lipgloss.Style
	StatusError   lipgloss.Style
	StatusRunning lipgloss.Style

	TaskSelected lipgloss.Style

	HelpKey  lipgloss.Style
	HelpText lipgloss.Style
}

func newStyles() *Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#666", Dark: "#888"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	green := lipgloss.AdaptiveColor{Light: "#22863a", Dark: "#3fb950"}
	yellow := lipgloss.AdaptiveColor{Light: "#b08800", Dark: "#d29922"}
	red := lipgloss.AdaptiveColor{Light: "#cb2431", Dark: "#f85149"}
	blue := lipgloss.AdaptiveColor{Light: "#0366d6", Dark: "#58a6ff"}

	return &Styles{
		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(subtle),
		Value:     lipgloss.NewStyle().Bold(true),
		Highlight: lipgloss.NewStyle().Foreground(highlight).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(subtle),

		StatusOK:      lipgloss.NewStyle().Foreground(green).Bold(true),
		StatusWarn:    lipgloss.NewStyle().Foreground(yellow).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(red).Bold(true),
		StatusRunning: lipgloss.NewStyle().Foreground(blue).Bold(true),

		TaskSelected: lipgloss.NewStyle().
			Background(highlight).
			Foreground(lipgloss.Color("#fff")).
			Bold(true),

		HelpKey:  lipgloss.NewStyle().Foreground(highlight).Bold(true),
		HelpText: lipgloss.NewStyle().Foreground(subtle),
	}
}

// New creates a board over o. Events observed by feed are shown in the
// events panel; feed may be nil.
func New(o *orchestrator.Orchestrator, feed *Feed) *Model {
	if feed == nil {
		feed = NewFeed()
	}
	m := &Model{
		width:       80,
		height:      24,
		activePanel: PanelTasks,
		orch:        o,
		feed:        feed,
		styles:      newStyles(),
	}
	m.refreshDates()
	if today, err := o.Store().DateKey("today"); err == nil {
		if i := slices.Index(m.dates, today); i >= 0 {
			m.dateIdx = i
		}
	}
	return m
}

// refreshDates reloads the date keys, keeping the current selection.
func (m *Model) refreshDates() {
	current := m.Date()
	m.dates = m.orch.Store().Dates()
	if len(m.dates) == 0 {
		if today, err := m.orch.Store().DateKey("today"); err == nil {
			m.dates = []string{today}
		}
	}
	if i := slices.Index(m.dates, current); i >= 0 {
		m.dateIdx = i
	}
	if m.dateIdx >= len(m.dates) {
		m.dateIdx = max(len(m.dates)-1, 0)
	}
}

// Date returns the date key being shown.
func (m *Model) Date() string {
	if m.dateIdx < len(m.dates) {
		return m.dates[m.dateIdx]
	}
	return ""
}

// rows returns the tasks of the shown date in store order.
func (m Model) rows() []schedule.Entry {
	var rows []schedule.Entry
	if m.Date() == "" {
		return rows
	}
	for e := range m.orch.Store().Tasks(schedule.Filter{Date: m.Date()}) {
		rows = append(rows, e)
	}
	return rows
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Follow the feed unless the user scrolled back.
		if n := m.feed.Len(); n > 0 && m.eventScroll >= n-2 {
			m.eventScroll = n - 1
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "right", "l":
		m.activePanel = (m.activePanel + 1) % panelCount
	case "shift+tab", "left", "h":
		m.activePanel = (m.activePanel + panelCount - 1) % panelCount

	case "up", "k":
		m = m.handleUp()
	case "down", "j":
		m = m.handleDown()
	case "home", "g":
		m = m.handleHome()
	case "end", "G":
		m = m.handleEnd()

	case "[":
		if m.dateIdx > 0 {
			m.dateIdx--
			m.selectedTask = 0
		}
	case "]":
		if m.dateIdx < len(m.dates)-1 {
			m.dateIdx++
			m.selectedTask = 0
		}

	case "a":
		m = m.autoSchedule()
	case "c":
		m = m.completeSelected()
	case "r":
		m.refreshDates()
		m.setStatus("refreshed", nil)
	}
	return m, nil
}

func (m Model) handleUp() Model {
	switch m.activePanel {
	case PanelZoo:
		if m.zooScroll > 0 {
			m.zooScroll--
		}
	case PanelTasks:
		if m.selectedTask > 0 {
			m.selectedTask--
		}
	case PanelEvents:
		if m.eventScroll > 0 {
			m.eventScroll--
		}
	}
	return m
}

func (m Model) handleDown() Model {
	switch m.activePanel {
	case PanelZoo:
		if m.zooScroll < len(m.orch.Zoo().Enclosures())-1 {
			m.zooScroll++
		}
	case PanelTasks:
		if m.selectedTask < len(m.rows())-1 {
			m.selectedTask++
		}
	case PanelEvents:
		if m.eventScroll < m.feed.Len()-1 {
			m.eventScroll++
		}
	}
	return m
}

func (m Model) handleHome() Model {
	switch m.activePanel {
	case PanelZoo:
		m.zooScroll = 0
	case PanelTasks:
		m.selectedTask = 0
	case PanelEvents:
		m.eventScroll = 0
	}
	return m
}

func (m Model) handleEnd() Model {
	switch m.activePanel {
	case PanelZoo:
		m.zooScroll = max(len(m.orch.Zoo().Enclosures())-1, 0)
	case PanelTasks:
		m.selectedTask = max(len(m.rows())-1, 0)
	case PanelEvents:
		m.eventScroll = max(m.feed.Len()-1, 0)
	}
	return m
}

// autoSchedule runs every scheduling pass for the shown date.
func (m Model) autoSchedule() Model {
	date := m.Date()
	if date == "" {
		return m
	}
	created, err := m.orch.ScheduleAll(date)
	if err != nil {
		m.setStatus("", err)
		return m
	}
	m.refreshDates()
	m.setStatus(fmt.Sprintf("scheduled %d new task(s) for %s", len(created), date), nil)
	return m
}

// completeSelected completes the highlighted task.
func (m Model) completeSelected() Model {
	rows := m.rows()
	if m.selectedTask >= len(rows) {
		m.setStatus("", zooerr.New(zooerr.NotFound, "no task selected"))
		return m
	}
	id := rows[m.selectedTask].Task.ID()
	if _, err := m.orch.CompleteTask(id); err != nil {
		m.setStatus("", err)
		return m
	}
	m.setStatus("completed "+id, nil)
	return m
}

func (m *Model) setStatus(msg string, err error) {
	m.statusErr = err != nil
	if err != nil {
		msg = err.Error()
		var zerr *zooerr.Error
		if errors.As(err, &zerr) {
			msg = zerr.Message
		}
	}
	m.status = msg
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	topHeight := m.height / 2
	bottomHeight := m.height - topHeight - 3
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	zooPanel := m.renderZooPanel(leftWidth-2, topHeight-2)
	taskPanel := m.renderTaskPanel(rightWidth-2, topHeight-2)
	eventPanel := m.renderEventPanel(m.width-2, bottomHeight-2)

	zooBorder := m.getBorder(PanelZoo).Width(leftWidth - 2).Height(topHeight - 2)
	taskBorder := m.getBorder(PanelTasks).Width(rightWidth - 2).Height(topHeight - 2)
	eventBorder := m.getBorder(PanelEvents).Width(m.width - 2).Height(bottomHeight - 2)

	topRow := lipgloss.JoinHorizontal(
		lipgloss.Top,
		zooBorder.Render(zooPanel),
		taskBorder.Render(taskPanel),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topRow,
		eventBorder.Render(eventPanel),
		m.renderHelpBar(),
	)
}

func (m Model) getBorder(panel Panel) lipgloss.Style {
	if m.activePanel == panel {
		return m.styles.ActiveBorder
	}
	return m.styles.InactiveBorder
}

// renderZooPanel lists enclosures with their cleanliness and residents.
func (m Model) renderZooPanel(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.orch.Zoo().Name))
	b.WriteString("\n\n")

	enclosures := m.orch.Zoo().Enclosures()
	if len(enclosures) == 0 {
		b.WriteString(m.styles.Muted.Render("No enclosures"))
		return b.String()
	}

	visible := max((height-4)/2, 1)
	start := min(m.zooScroll, len(enclosures)-1)
	for i := start; i < len(enclosures) && i < start+visible; i++ {
		e := enclosures[i]
		b.WriteString(m.styles.Value.Render(e.ID))
		b.WriteString(" ")
		b.WriteString(m.renderCleanliness(e.Cleanliness, width-len(e.ID)-4))
		b.WriteString("\n  ")
		b.WriteString(m.renderResidents(e))
		b.WriteString("\n")
	}
	if len(enclosures) > visible {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(" [%d/%d]", start+1, len(enclosures))))
	}
	return b.String()
}

// renderCleanliness draws a bar of zoo.MaxCleanliness cells.
func (m Model) renderCleanliness(level, width int) string {
	cell := max(min(width, 20)/zoo.MaxCleanliness, 1)
	level = min(max(level, 0), zoo.MaxCleanliness)
	bar := strings.Repeat("=", level*cell) + strings.Repeat("-", (zoo.MaxCleanliness-level)*cell)

	style := m.styles.StatusOK
	switch {
	case level < m.orch.Config().CleaningThreshold:
		style = m.styles.StatusError
	case level < m.orch.Config().CleanEnough:
		style = m.styles.StatusWarn
	}
	return "[" + style.Render(bar) + "]"
}

func (m Model) renderResidents(e *zoo.Enclosure) string {
	if len(e.Animals) == 0 {
		return m.styles.Muted.Render("empty")
	}
	parts := make([]string, 0, len(e.Animals))
	for _, name := range e.Animals {
		a, err := m.orch.Zoo().Animal(name)
		if err != nil {
			continue
		}
		switch {
		case a.Ailment:
			parts = append(parts, m.styles.StatusError.Render(name+"!"))
		case a.Hungry:
			parts = append(parts, m.styles.StatusWarn.Render(name+"*"))
		default:
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}

// renderTaskPanel lists the shown date's tasks.
func (m Model) renderTaskPanel(width, height int) string {
	var b strings.Builder

	title := "Tasks"
	if date := m.Date(); date != "" {
		title += " " + date
	}
	b.WriteString(m.styles.Title.Render(title))
	if len(m.dates) > 1 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(" (%d/%d)", m.dateIdx+1, len(m.dates))))
	}
	b.WriteString("\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(m.styles.Muted.Render("No tasks scheduled"))
		return b.String()
	}

	visible := max(height-4, 1)
	scroll := 0
	if m.selectedTask >= visible {
		scroll = m.selectedTask - visible + 1
	}

	for i := scroll; i < len(rows) && i < scroll+visible; i++ {
		row := rows[i]
		var icon string
		var style lipgloss.Style
		switch {
		case row.Status == schedule.StatusCompleted:
			icon, style = "*", m.styles.StatusOK
		case row.Task.Assigned():
			icon, style = ">", m.styles.StatusRunning
		default:
			icon, style = "o", m.styles.Muted
		}

		line := fmt.Sprintf(" %s %s", style.Render(icon), row.Task.ID())
		if i == m.selectedTask && m.activePanel == PanelTasks {
			line = m.styles.TaskSelected.Render(line)
		}
		if owner := row.Owner; owner != schedule.Unassigned && len(row.Task.ID())+len(owner)+6 < width {
			line += m.styles.Muted.Render(" " + owner)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(rows) > visible {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(" [%d/%d]", m.selectedTask+1, len(rows))))
	}
	return b.String()
}

// renderEventPanel shows the orchestrator event feed.
func (m Model) renderEventPanel(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Events"))
	b.WriteString("\n\n")

	events := m.feed.Events()
	if len(events) == 0 {
		b.WriteString(m.styles.Muted.Render("No events yet"))
		return b.String()
	}

	visible := max(height-4, 1)
	start := m.eventScroll
	if start+visible > len(events) {
		start = max(len(events)-visible, 0)
	}

	for i := start; i < len(events) && i < start+visible; i++ {
		e := events[i]
		style := m.styles.StatusRunning
		switch e.Type {
		case orchestrator.EventRejected:
			style = m.styles.StatusError
		case orchestrator.EventTaskCompleted:
			style = m.styles.StatusOK
		case orchestrator.EventTaskPruned, orchestrator.EventTaskReleased:
			style = m.styles.StatusWarn
		}

		msg := e.TaskID
		if e.Error != "" {
			msg = strings.TrimSpace(msg + " " + e.Error)
		}
		if e.Owner != "" && e.Owner != schedule.Unassigned {
			msg += " -> " + e.Owner
		}
		maxLen := width - 24
		if len(msg) > maxLen && maxLen > 3 {
			msg = msg[:maxLen-3] + "..."
		}

		fmt.Fprintf(&b, "%s %s %s\n",
			m.styles.Muted.Render(e.Time.Format("15:04:05")),
			style.Render(fmt.Sprintf("[%-9s]", e.Type)),
			msg,
		)
	}
	if len(events) > visible {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(" [%d/%d]", start+1, len(events))))
	}
	return b.String()
}

func (m Model) renderHelpBar() string {
	helpItems := []struct {
		key  string
		desc string
	}{
		{"tab", "panel"},
		{"[/]", "date"},
		{"a", "auto-schedule"},
		{"c", "complete"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(helpItems))
	for _, item := range helpItems {
		parts = append(parts, fmt.Sprintf("%s %s",
			m.styles.HelpKey.Render(item.key),
			m.styles.HelpText.Render(item.desc),
		))
	}
	bar := "  " + strings.Join(parts, "  |  ")
	if m.status != "" {
		style := m.styles.StatusOK
		if m.statusErr {
			style = m.styles.StatusError
		}
		bar += "   " + style.Render(m.status)
	}
	return bar
}

// Run starts the board on the alternate screen.
func (m *Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
