package inspect

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcal/internal/model"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

const (
	pickerNoChoice = -1
	pickerQuit     = -2
)

type pickerModel struct {
	postings []model.Posting
	cursor   int
	chosen   int
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = pickerQuit
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.postings)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.postings) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(fmt.Sprintf("Saved postings (%d)", len(m.postings))))
	b.WriteByte('\n')

	if len(m.postings) == 0 {
		b.WriteString(pickerItemStyle.Render("(no postings yet, try `jobcal save <url>`)") + "\n")
	}
	for i, p := range m.postings {
		label := pickerLabel(p)
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(pickerItemStyle.Render(label) + "\n")
		}
	}

	b.WriteString(pickerHintStyle.Render("↑/↓/j/k navigate  enter open  q quit"))
	return b.String()
}

func pickerLabel(p model.Posting) string {
	deadline := "상시"
	if p.Deadline != nil {
		deadline = p.Deadline.Format("2006-01-02")
	}
	return fmt.Sprintf("%s  %s · %s", deadline, p.CompanyName, p.JobTitle)
}

// RunPostingPicker shows an interactive posting selector.
// Returns the index of the chosen posting, or -1 if the user quit.
func RunPostingPicker(postings []model.Posting) (int, error) {
	m := pickerModel{
		postings: postings,
		chosen:   pickerNoChoice,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
