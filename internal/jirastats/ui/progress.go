package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Style names accepted by New
const (
	StyleLine = "line"
	StyleBar  = "bar"
	StyleNone = "none"
)

// Reporter is notified as issues are annotated
type Reporter interface {
	Start(total int)
	Step(done, total int, issueKey string)
	Finish()
}

// New returns a reporter of the given style writing to w
func New(style string, w io.Writer) (Reporter, error) {
	switch strings.ToLower(style) {
	case StyleLine:
		return NewLine(w), nil
	case StyleBar:
		return NewBar(w), nil
	case StyleNone:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown progress style %q (supported: %s, %s, %s)", style, StyleLine, StyleBar, StyleNone)
	}
}

// Discard ignores all progress
type Discard struct{}

func (Discard) Start(int)             {}
func (Discard) Step(int, int, string) {}
func (Discard) Finish()               {}

// Line rewrites a single "- Getting work-started-date  i/n" line
type Line struct {
	w       io.Writer
	started bool
}

func NewLine(w io.Writer) *Line {
	return &Line{w: w}
}

func (l *Line) Start(total int) {
	l.started = true
	_, _ = fmt.Fprintf(l.w, "\r- Getting work-started-date  %d/%d", 0, total)
}

func (l *Line) Step(done, total int, _ string) {
	_, _ = fmt.Fprintf(l.w, "\r- Getting work-started-date  %d/%d", done, total)
}

func (l *Line) Finish() {
	if l.started {
		_, _ = fmt.Fprintln(l.w)
	}
}

var (
	labelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	countStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
)

type stepMsg struct {
	done     int
	total    int
	issueKey string
}

type finishMsg struct{}

// barModel renders a progress bar for the changelog fetches
type barModel struct {
	bar      progress.Model
	done     int
	total    int
	issueKey string
}

func newBarModel(total int) barModel {
	return barModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
}

func (m barModel) Init() tea.Cmd {
	return nil
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.done = msg.done
		m.total = msg.total
		m.issueKey = msg.issueKey
	case finishMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m barModel) percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

func (m barModel) View() string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("Getting work-started-date"))
	s.WriteString(" ")
	s.WriteString(m.bar.ViewAs(m.percent()))
	s.WriteString(" ")
	s.WriteString(countStyle.Render(fmt.Sprintf("%d/%d %s", m.done, m.total, m.issueKey)))
	s.WriteString("\n")
	return s.String()
}

// Bar runs a bubbletea program showing a progress bar. The program runs in its own
// goroutine; Step and Finish only send it messages.
type Bar struct {
	w       io.Writer
	program *tea.Program
	exited  chan struct{}
}

func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

func (b *Bar) Start(total int) {
	b.program = tea.NewProgram(newBarModel(total),
		tea.WithOutput(b.w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	b.exited = make(chan struct{})
	go func() {
		defer close(b.exited)
		_, _ = b.program.Run()
	}()
}

func (b *Bar) Step(done, total int, issueKey string) {
	if b.program == nil {
		return
	}
	b.program.Send(stepMsg{done: done, total: total, issueKey: issueKey})
}

func (b *Bar) Finish() {
	if b.program == nil {
		return
	}
	b.program.Send(finishMsg{})
	<-b.exited
	b.program = nil
}
