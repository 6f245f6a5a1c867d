package inspect

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcal/internal/model"
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Entry is what the viewer renders. It is built from a fresh parse result or
// from a stored posting.
type Entry struct {
	URL            string
	CompanyName    string
	JobTitle       string
	Deadline       *time.Time
	Location       string
	Description    string
	DescriptionRaw string
	ParsedData     model.Metadata
}

// FromParsedJob wraps a parse result for display.
func FromParsedJob(url string, job model.ParsedJob) Entry {
	return Entry{
		URL:            url,
		CompanyName:    job.CompanyName,
		JobTitle:       job.JobTitle,
		Deadline:       job.Deadline,
		Location:       job.Location,
		Description:    job.Description,
		DescriptionRaw: job.DescriptionRaw,
		ParsedData:     job.ParsedData,
	}
}

// FromPosting wraps a stored posting for display.
func FromPosting(p model.Posting) Entry {
	return Entry{
		URL:            p.OriginalURL,
		CompanyName:    p.CompanyName,
		JobTitle:       p.JobTitle,
		Deadline:       p.Deadline,
		Location:       p.Location,
		Description:    p.Description,
		DescriptionRaw: p.DescriptionRaw,
		ParsedData:     p.ParsedData,
	}
}

type viewerModel struct {
	entry    Entry
	width    int
	height   int
	showRaw  bool
	ready    bool
	wantQuit bool
	open     func(string)
	vp       viewport.Model
}

func newViewerModel(entry Entry) viewerModel {
	return viewerModel{
		entry:  entry,
		width:  80,
		height: 24,
		open:   openURL,
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.vp = viewport.New(m.width-4, m.height-4)
			m.ready = true
		} else {
			m.vp.Width = m.width - 4
			m.vp.Height = m.height - 4
		}
		m.vp.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.wantQuit = true
			return m, tea.Quit
		case "esc", "backspace":
			return m, tea.Quit
		case "o":
			if m.entry.URL != "" {
				m.open(m.entry.URL)
			}
			return m, nil
		case "r":
			m.showRaw = !m.showRaw
			m.vp.SetContent(m.render())
			m.vp.SetYOffset(0)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m viewerModel) View() string {
	if !m.ready {
		return "loading..."
	}
	title := titleStyle.Render(fmt.Sprintf("%s · %s", m.entry.CompanyName, m.entry.JobTitle))
	content := borderStyle.Width(m.width - 2).Render(m.vp.View())

	mode := "markdown"
	if m.showRaw {
		mode = "raw"
	}
	status := fmt.Sprintf(" [%s] o open URL  r raw/markdown  esc back  ↑/↓ scroll  q quit", mode)
	return title + "\n" + content + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m viewerModel) render() string {
	e := m.entry
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("회사", e.CompanyName)
	addField("포지션", e.JobTitle)
	addField("마감일", formatDeadline(e.Deadline))
	addField("근무지", e.Location)
	addField("URL", e.URL)

	if msg := e.ParsedData.String("error"); msg != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+msg) + "\n")
	}

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-lipgloss.Width(label), 3))
		return dividerStyle.Render(label + fill)
	}

	if e.ParsedData.Len() > 0 {
		b.WriteByte('\n')
		b.WriteString(divider("── parsed data "))
		b.WriteByte('\n')
		for _, k := range e.ParsedData.Keys() {
			addField(k, fmt.Sprint(e.ParsedData.Get(k)))
		}
	}

	desc := e.Description
	label := "── description "
	if m.showRaw {
		desc = e.DescriptionRaw
		label = "── raw description "
	}
	b.WriteByte('\n')
	b.WriteString(divider(label))
	b.WriteByte('\n')
	if strings.TrimSpace(desc) == "" {
		b.WriteString(dividerStyle.Render("(empty)"))
	} else {
		b.WriteString(wrapLines(desc, wrapWidth))
	}
	b.WriteByte('\n')
	return b.String()
}

func formatDeadline(d *time.Time) string {
	if d == nil {
		return "상시 / 미정"
	}
	return d.Format("2006-01-02")
}

// wrapLines word-wraps each line of text on its own so blank lines and list
// items survive.
func wrapLines(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = wordWrap(line, width)
		}
	}
	return strings.Join(lines, "\n")
}

// wordWrap measures display cells, so wide Hangul runes count as two.
func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if lipgloss.Width(line)+1+lipgloss.Width(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunViewer shows one entry in a scrollable full-screen view.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to go back.
func RunViewer(entry Entry) (bool, error) {
	p := tea.NewProgram(newViewerModel(entry), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(viewerModel)
	return final.wantQuit, nil
}
