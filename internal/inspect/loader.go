package inspect

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcal/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ErrCancelled is returned when the user aborts a loader with ctrl+c.
var ErrCancelled = errors.New("cancelled")

type parseDoneMsg struct {
	job model.ParsedJob
	err error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	url     string
	parseFn func(ctx context.Context) (model.ParsedJob, error)
	timeout time.Duration
	frame   int
	result  model.ParsedJob
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doParse(), m.tick())
}

func (m loaderModel) doParse() tea.Cmd {
	parseFn := m.parseFn
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		job, err := parseFn(ctx)
		return parseDoneMsg{job: job, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case parseDoneMsg:
		m.result = msg.job
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Parsing %s...\n", spinner, m.url)
}

// RunLoader shows a spinner while parseFn runs. It renders inline (no alt
// screen). The parse gets its own context bounded by timeout.
func RunLoader(url string, timeout time.Duration, parseFn func(ctx context.Context) (model.ParsedJob, error)) (model.ParsedJob, error) {
	m := loaderModel{
		url:     url,
		parseFn: parseFn,
		timeout: timeout,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return model.ParsedJob{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
