package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMetadata_KeepsInsertionOrder(t *testing.T) {
	m := NewMetadata("wanted")
	m.Set("responsibilities", "a")
	m.Set("employmentType", "정규직")
	m.Set("source", "wanted") // overwrite keeps position

	got := strings.Join(m.Keys(), ",")
	if got != "source,responsibilities,employmentType" {
		t.Errorf("keys = %s", got)
	}

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"source":"wanted","responsibilities":"a","employmentType":"정규직"}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}

	var back Metadata
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if strings.Join(back.Keys(), ",") != "source,responsibilities,employmentType" {
		t.Errorf("round-trip keys = %v", back.Keys())
	}
}

func TestMetadata_SetStringSkipsBlank(t *testing.T) {
	var m Metadata
	m.SetString("applyUrl", "  ")
	if m.Has("applyUrl") {
		t.Error("blank value should not be stored")
	}
}

func TestMetadata_CloneIsIndependent(t *testing.T) {
	m := NewMetadata("generic")
	c := m.Clone()
	c.Set("extra", 1)
	if m.Has("extra") {
		t.Error("clone shares storage with original")
	}
}

func TestNewParsedJob_Placeholders(t *testing.T) {
	job := NewParsedJob(JobFields{CompanyName: "  ", Location: strings.Repeat("가", 1200)}, NewMetadata("generic"))
	if job.CompanyName != UnknownCompany {
		t.Errorf("CompanyName = %q", job.CompanyName)
	}
	if job.JobTitle != UnknownPosition {
		t.Errorf("JobTitle = %q", job.JobTitle)
	}
	if n := len([]rune(job.Location)); n != LocationMaxLength {
		t.Errorf("location runes = %d, want %d", n, LocationMaxLength)
	}
	if job.Source() != "generic" {
		t.Errorf("Source = %q", job.Source())
	}
}

func TestFailedParsedJob(t *testing.T) {
	job := FailedParsedJob("zighang", errors.New("boom"))
	if job.CompanyName != UnknownCompany || job.JobTitle != UnknownPosition {
		t.Errorf("unexpected placeholders: %+v", job)
	}
	if job.ParsedData.String("error") != "boom" {
		t.Errorf("error = %v", job.ParsedData.Get("error"))
	}
	if job.Source() != "zighang" {
		t.Errorf("source = %q", job.Source())
	}
}

func TestWithDescription_DoesNotMutateOriginal(t *testing.T) {
	job := NewParsedJob(JobFields{Description: "before"}, NewMetadata("generic"))
	updated := job.WithDescription("after")
	if job.Description != "before" || updated.Description != "after" {
		t.Errorf("job=%q updated=%q", job.Description, updated.Description)
	}
	if updated.DescriptionRaw != "before" {
		t.Errorf("raw = %q", updated.DescriptionRaw)
	}
}

func TestParseApplicationStatus(t *testing.T) {
	got, err := ParseApplicationStatus(" applied ")
	if err != nil || got != StatusApplied {
		t.Fatalf("ParseApplicationStatus = %q, %v", got, err)
	}
	if _, err := ParseApplicationStatus("ghosted"); err == nil {
		t.Error("expected error for unknown status")
	}
	if !StatusRejected.Closed() || !StatusAccepted.Closed() || StatusInterviewing.Closed() {
		t.Error("Closed reports the wrong statuses")
	}
}
