package inspect

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcal/internal/model"
)

func sampleJob() model.ParsedJob {
	deadline := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	data := model.NewMetadata("wanted")
	data.Set("position_id", "123")
	return model.NewParsedJob(model.JobFields{
		CompanyName:    "카카오",
		JobTitle:       "백엔드 개발자",
		Deadline:       &deadline,
		Location:       "경기 성남시",
		Description:    "## 주요업무\n- API 개발",
		DescriptionRaw: "주요업무\nAPI 개발",
	}, data)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(m viewerModel) viewerModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(viewerModel)
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wordWrap = %q", got)
	}
	if wordWrap("   ", 10) != "" {
		t.Error("expected empty result for blank input")
	}
}

func TestWordWrap_WideRunes(t *testing.T) {
	got := wordWrap("백엔드 개발 경험 우대", 12)
	for _, line := range strings.Split(got, "\n") {
		if lipgloss.Width(line) > 12 {
			t.Errorf("line %q is %d cells wide, want <= 12", line, lipgloss.Width(line))
		}
	}
}

func TestWrapLines_KeepsBlankLines(t *testing.T) {
	got := wrapLines("a\n\nb", 10)
	if got != "a\n\nb" {
		t.Errorf("wrapLines = %q", got)
	}
}

func TestFromParsedJob(t *testing.T) {
	e := FromParsedJob("https://www.wanted.co.kr/wd/123", sampleJob())
	if e.CompanyName != "카카오" || e.URL != "https://www.wanted.co.kr/wd/123" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.ParsedData.String("source") != "wanted" {
		t.Errorf("source = %q", e.ParsedData.String("source"))
	}
}

func TestViewer_RenderFields(t *testing.T) {
	m := sized(newViewerModel(FromParsedJob("https://x.test/1", sampleJob())))
	out := m.render()
	for _, want := range []string{"카카오", "백엔드 개발자", "2024-03-15", "경기 성남시", "position_id", "## 주요업무"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestViewer_NoDeadline(t *testing.T) {
	job := sampleJob()
	job.Deadline = nil
	m := sized(newViewerModel(FromParsedJob("https://x.test/1", job)))
	if !strings.Contains(m.render(), "상시 / 미정") {
		t.Error("expected open-ended deadline label")
	}
}

func TestViewer_RenderError(t *testing.T) {
	job := model.FailedParsedJob("generic", errors.New("boom"))
	m := sized(newViewerModel(FromParsedJob("https://x.test/1", job)))
	if !strings.Contains(m.render(), "boom") {
		t.Error("expected extraction error in render")
	}
}

func TestViewer_ToggleRaw(t *testing.T) {
	m := sized(newViewerModel(FromParsedJob("https://x.test/1", sampleJob())))
	next, _ := m.Update(key("r"))
	m = next.(viewerModel)
	if !m.showRaw {
		t.Fatal("expected raw mode after r")
	}
	out := m.render()
	if strings.Contains(out, "## 주요업무") || !strings.Contains(out, "raw description") {
		t.Error("raw mode should show the raw description")
	}
}

func TestViewer_OpenAndQuit(t *testing.T) {
	var opened string
	m := sized(newViewerModel(FromParsedJob("https://x.test/1", sampleJob())))
	m.open = func(u string) { opened = u }

	next, _ := m.Update(key("o"))
	m = next.(viewerModel)
	if opened != "https://x.test/1" {
		t.Errorf("opened = %q", opened)
	}

	next, cmd := m.Update(key("esc"))
	if cmd == nil || next.(viewerModel).wantQuit {
		t.Error("esc should return without wantQuit")
	}
	next, cmd = m.Update(key("q"))
	if cmd == nil || !next.(viewerModel).wantQuit {
		t.Error("q should quit with wantQuit")
	}
}

func TestPicker_Navigation(t *testing.T) {
	postings := []model.Posting{
		{ID: 1, CompanyName: "A", JobTitle: "a"},
		{ID: 2, CompanyName: "B", JobTitle: "b"},
	}
	var m tea.Model = pickerModel{postings: postings, chosen: pickerNoChoice}

	m, _ = m.Update(key("up"))
	if m.(pickerModel).cursor != 0 {
		t.Error("cursor should not move above the first item")
	}
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("down"))
	if m.(pickerModel).cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.(pickerModel).cursor)
	}
	m, cmd := m.Update(key("enter"))
	if cmd == nil || m.(pickerModel).chosen != 1 {
		t.Errorf("chosen = %d, want 1", m.(pickerModel).chosen)
	}
}

func TestPicker_EmptyEnterIgnored(t *testing.T) {
	var m tea.Model = pickerModel{chosen: pickerNoChoice}
	m, cmd := m.Update(key("enter"))
	if cmd != nil || m.(pickerModel).chosen != pickerNoChoice {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "no postings yet") {
		t.Error("expected empty-state hint")
	}
}

func TestPickerLabel(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got := pickerLabel(model.Posting{CompanyName: "카카오", JobTitle: "백엔드", Deadline: &d})
	if got != "2024-03-15  카카오 · 백엔드" {
		t.Errorf("pickerLabel = %q", got)
	}
	if !strings.HasPrefix(pickerLabel(model.Posting{}), "상시") {
		t.Error("expected open-ended label")
	}
}

func TestLoader_DoneAndCancel(t *testing.T) {
	m := loaderModel{url: "https://x.test/1"}
	next, cmd := m.Update(parseDoneMsg{job: sampleJob()})
	if cmd == nil {
		t.Fatal("expected quit after parse")
	}
	got := next.(loaderModel)
	if !got.done || got.result.CompanyName != "카카오" || got.err != nil {
		t.Errorf("unexpected loader state: %+v", got)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !errors.Is(next.(loaderModel).err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", next.(loaderModel).err)
	}
}
