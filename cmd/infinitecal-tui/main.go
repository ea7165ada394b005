// Command infinitecal-tui is a terminal demo of the calendar engine: an
// infinitely scrollable week grid rendered with lipgloss layers, driven by
// the same layout attributes a graphical host would consume.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/samber/mo"

	"github.com/shohe/infinitecal/calendar"
	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/ics"
	"github.com/shohe/infinitecal/internal/timeutil"
	"github.com/shohe/infinitecal/layout"
)

// Terminal cells are not square; the content-space geometry is divided by
// these factors when mapped onto the screen.
const (
	cellW = 8.0
	cellH = 16.0
)

func main() {
	var (
		settingsPath = flag.String("settings", "", "path to a YAML settings file")
		icsPath      = flag.String("ics", "", "path to an iCalendar file to display")
	)
	flag.Parse()

	settings := calendar.DefaultSettings()
	if *settingsPath != "" {
		var err error
		settings, err = calendar.LoadSettings(*settingsPath)
		if err != nil {
			log.Fatalf("load settings: %v", err)
		}
	}

	events := demoEvents()
	if *icsPath != "" {
		f, err := os.Open(*icsPath)
		if err != nil {
			log.Fatalf("open ics: %v", err)
		}
		events, err = ics.ParseEvents(f, settings.Location())
		f.Close()
		if err != nil {
			log.Fatalf("parse ics: %v", err)
		}
	}

	m, err := newModel(settings, events)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer m.view.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// demoEvents fills the current week so the grid has something to show.
func demoEvents() []event.Event {
	day := timeutil.StartOfDay(time.Now())
	at := func(d int, h, m int) time.Time {
		return timeutil.SetClock(timeutil.AddDays(day, d), h, m, 0)
	}
	span := func(title string, start, end time.Time) event.Event {
		return event.New(title, start, mo.Some(end), false)
	}
	return []event.Event{
		span("Standup", at(0, 9, 30), at(0, 9, 45)),
		span("Design review", at(0, 10, 0), at(0, 11, 30)),
		span("1:1", at(0, 10, 30), at(0, 11, 0)),
		span("Lunch", at(1, 12, 0), at(1, 13, 0)),
		span("Overnight deploy", at(1, 23, 0), at(2, 1, 30)),
		span("Focus block", at(3, 14, 0), at(3, 17, 0)),
		event.New("Conference", day, mo.Some(timeutil.EndOfDay(timeutil.AddDays(day, 1))), true),
	}
}

type tickMsg time.Time

type model struct {
	view     *calendar.View
	settings calendar.Settings
	status   string
	width    int
	height   int
	styles   styles
}

type styles struct {
	cell       lipgloss.Style
	header     lipgloss.Style
	today      lipgloss.Style
	timeLabel  lipgloss.Style
	hourLine   lipgloss.Style
	nowLine    lipgloss.Style
	allDay     lipgloss.Style
	statusLine lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		cell:       lipgloss.NewStyle().Background(lipgloss.Color("25")).Foreground(lipgloss.Color("231")),
		header:     lipgloss.NewStyle().Bold(true),
		today:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		timeLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		hourLine:   lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		nowLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("197")),
		allDay:     lipgloss.NewStyle().Background(lipgloss.Color("58")).Foreground(lipgloss.Color("231")),
		statusLine: lipgloss.NewStyle().Reverse(true),
	}
}

func newModel(settings calendar.Settings, events []event.Event) (*model, error) {
	m := &model{settings: settings, styles: defaultStyles()}

	v, err := calendar.NewView(settings, time.Now(), calendar.Callbacks{
		CurrentDateChanged: func(day time.Time) {
			// Status updates arrive with the next frame.
		},
	})
	if err != nil {
		return nil, err
	}
	v.SetEvents(events)
	v.StartClock()
	m.view = v
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.SetViewport(layout.Size{
			Width:  float64(msg.Width) * cellW,
			Height: float64(msg.Height-1) * cellH,
		})
		m.view.ScrollToNow(false)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.page(-1)
		case "right", "l":
			m.page(1)
		case "t":
			m.view.ScrollToDate(time.Now(), true)
		case "n":
			m.view.ScrollToNow(true)
		case "up", "k":
			m.scrollY(-2 * cellH)
		case "down", "j":
			m.scrollY(2 * cellH)
		case "a":
			info := m.view.AllDayInfo()
			if info.NeedsExpansion {
				m.view.SetAllDayExpanded(!info.Expanded)
			}
		}

	case tickMsg:
		m.view.Tick(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *model) page(dir int) {
	target := timeutil.AddDays(m.view.CurrentDate(), dir*m.settings.NumOfDays)
	m.view.ScrollToDate(target, true)
}

func (m *model) scrollY(dy float64) {
	offset := m.view.Offset()
	m.view.BeginScrollDrag(layout.Point{Y: 1})
	m.view.ScrollDragTo(layout.Point{X: offset.X, Y: offset.Y + dy})
	m.view.EndScrollDrag(layout.Point{})
}

func (m *model) View() string {
	if m.width == 0 || !m.view.Engine().HasViewport() {
		return "loading..."
	}

	offset := m.view.Offset()
	var layers []*lipgloss.Layer
	for _, a := range m.view.LayoutVisible() {
		if l := m.layerFor(a, offset); l != nil {
			layers = append(layers, l)
		}
	}

	canvas := lipgloss.NewCanvas(layers...)
	status := m.styles.statusLine.Width(m.width).Render(
		fmt.Sprintf(" %s  •  h/l page  j/k scroll  t today  n now  a all-day  q quit",
			m.view.CurrentDate().Format("Mon Jan 2 2006")))
	return canvas.Render() + "\n" + status
}

// layerFor maps one layout attribute to a positioned terminal layer.
func (m *model) layerFor(a *layout.Attributes, offset layout.Point) *lipgloss.Layer {
	x := int((a.Frame.MinX() - offset.X) / cellW)
	y := int((a.Frame.MinY() - offset.Y) / cellH)
	w := int(a.Frame.Size.Width / cellW)
	h := int(a.Frame.Size.Height / cellH)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	var content string
	switch a.Kind {
	case layout.KindEventCell:
		ev, ok := m.view.Engine().EventAt(a.Index)
		if !ok {
			return nil
		}
		style := m.styles.cell
		if m.view.DimmedEventID() == ev.ID {
			style = style.Faint(true)
		}
		content = style.Width(w).Height(h).Render(truncate(ev.Title, w*h))

	case layout.KindDateHeader:
		item := m.view.Engine().HeaderItem(a.Index.Section)
		style := m.styles.header
		if item.IsToday {
			style = m.styles.today
		}
		content = style.Width(w).Render(item.Date.Format("Mon 2"))

	case layout.KindTimeHeader:
		label := m.view.Engine().TickLabel(a.Index.Item)
		if !label.IsDisplayed || label.Time.Minute() != 0 {
			return nil
		}
		text := label.Time.Format("15:04")
		if label.IsEndOfDay {
			text = "24:00"
		}
		style := m.styles.timeLabel
		if label.IsHighlighted {
			style = style.Bold(true)
		}
		content = style.Render(text)

	case layout.KindHorizontalGridline:
		content = m.styles.hourLine.Render(repeat('-', w))

	case layout.KindTimeline:
		content = m.styles.nowLine.Render(repeat('=', w))

	case layout.KindAllDayHeader:
		d := m.dayForSection(a.Index.Section)
		evs := m.view.AllDayEvents(d)
		if len(evs) == 0 {
			return nil
		}
		content = m.styles.allDay.Width(w).Render(truncate(evs[0].Title, w))

	default:
		return nil
	}

	return lipgloss.NewLayer(content).X(x).Y(y).Z(a.ZIndex)
}

func (m *model) dayForSection(section int) time.Time {
	return m.view.DayForSection(section)
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}

func repeat(c rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = c
	}
	return string(out)
}
