package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"baml/internal/buildpipeline"
)

// maxRows ограничивает число строк страниц в окне; остальные сворачиваются в счётчик.
const maxRows = 12

type pageState uint8

const (
	pageQueued pageState = iota
	pageWorking
	pageDone
	pageCached
	pageFailed
)

func (s pageState) final() bool {
	return s >= pageDone
}

type pageRow struct {
	name    string
	state   pageState
	stage   buildpipeline.Stage
	elapsed time.Duration
}

// label is the text in the status column.
func (r pageRow) label() string {
	switch r.state {
	case pageWorking:
		return stageLabel(r.stage)
	case pageDone:
		return "done"
	case pageCached:
		return "cached"
	case pageFailed:
		return "error"
	default:
		return "queued"
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyles = map[pageState]lipgloss.Style{
		pageQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		pageWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		pageDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		pageCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		pageFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

type progressModel struct {
	title      string
	events     <-chan buildpipeline.Event
	spinner    spinner.Model
	bar        progress.Model
	pages      []pageRow
	byName     map[string]int
	stageLabel string
	width      int
	done       bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows one row per page
// and a bar over the whole build. The model quits when events is closed.
func NewProgressModel(title string, pages []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = stateStyles[pageWorking]

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		pages:   make([]pageRow, len(pages)),
		byName:  make(map[string]int, len(pages)),
		width:   80,
	}
	for i, name := range pages {
		m.pages[i] = pageRow{name: name}
		m.byName[name] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.waitEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.pages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	rows := m.visibleRows()
	for _, i := range rows {
		row := m.pages[i]
		status := stateStyles[row.state].Render(fmt.Sprintf("%10s", row.label()))
		fmt.Fprintf(&b, "  %s %s", status, truncate(row.name, nameWidth))
		if row.state.final() && row.elapsed > 0 {
			b.WriteString(dimStyle.Render(" " + row.elapsed.Round(time.Microsecond).String()))
		}
		b.WriteString("\n")
	}
	if hidden := len(m.pages) - len(rows); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more pages", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	finished := 0
	for _, row := range m.pages {
		if row.state.final() {
			finished++
		}
	}
	header := fmt.Sprintf("%s [%d/%d]", m.title, finished, len(m.pages))
	if m.stageLabel != "" && !m.done {
		header += " " + m.stageLabel
	}
	failed := m.failedCount()
	switch {
	case m.done && failed > 0:
		return fmt.Sprintf("failed: %s (%d errors)", header, failed)
	case m.done:
		return "done: " + header
	default:
		return m.spinner.View() + " " + header
	}
}

// visibleRows выбирает строки для окна: сначала ошибки и активные страницы,
// потом остальные по порядку, не больше maxRows.
func (m *progressModel) visibleRows() []int {
	if len(m.pages) <= maxRows {
		rows := make([]int, len(m.pages))
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, maxRows)
	picked := make([]bool, len(m.pages))
	for _, want := range []pageState{pageFailed, pageWorking} {
		for i, row := range m.pages {
			if len(rows) == maxRows {
				return rows
			}
			if row.state == want {
				rows = append(rows, i)
				picked[i] = true
			}
		}
	}
	for i := range m.pages {
		if len(rows) == maxRows {
			break
		}
		if !picked[i] {
			rows = append(rows, i)
		}
	}
	return rows
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			m.stageLabel = stageLabel(ev.Stage)
		}
		return nil
	}
	i, ok := m.byName[ev.File]
	if !ok {
		return nil
	}
	row := &m.pages[i]
	switch ev.Status {
	case buildpipeline.StatusQueued:
		row.state = pageQueued
		row.stage = ""
		return nil
	case buildpipeline.StatusWorking:
		row.state = pageWorking
	case buildpipeline.StatusDone:
		row.state = pageDone
		if ev.Cached {
			row.state = pageCached
		}
	case buildpipeline.StatusError:
		row.state = pageFailed
	default:
		return nil
	}
	row.stage = ev.Stage
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction is the share of the build already done: finished pages count
// fully, pages in flight by the stage they reached.
func (m *progressModel) fraction() float64 {
	total := 0.0
	for _, row := range m.pages {
		if row.state.final() {
			total++
		} else {
			total += progressFromStage(row.stage)
		}
	}
	return total / float64(len(m.pages))
}

func (m *progressModel) failedCount() int {
	n := 0
	for _, row := range m.pages {
		if row.state == pageFailed {
			n++
		}
	}
	return n
}

func progressFromStage(stage buildpipeline.Stage) float64 {
	switch stage {
	case buildpipeline.StageTokenize:
		return 0.1
	case buildpipeline.StageParse:
		return 0.3
	case buildpipeline.StageRender:
		return 0.6
	case buildpipeline.StageWrite:
		return 0.9
	default:
		return 0
	}
}

func stageLabel(stage buildpipeline.Stage) string {
	switch stage {
	case buildpipeline.StageTokenize:
		return "tokenizing"
	case buildpipeline.StageParse:
		return "parsing"
	case buildpipeline.StageRender:
		return "rendering"
	case buildpipeline.StageWrite:
		return "writing"
	default:
		return ""
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
