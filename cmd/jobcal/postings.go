package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/notifier"
)

var postingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "List saved postings",
	Long:  "Prints a table of stored postings ordered by deadline, with their application status.",
	Args:  cobra.NoArgs,
	RunE:  runPostings,
}

func init() {
	rootCmd.AddCommand(postingsCmd)
}

func runPostings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	postings, err := st.ListPostings(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s %s %s %s %s\n",
		pad("ID", 5), pad("마감일", 11), pad("D-day", 6), pad("App", 18), pad("Company", 20), "Title")
	fmt.Println(strings.Repeat("─", 90))

	now := time.Now()
	for _, p := range postings {
		apps, err := st.ListApplications(ctx, p.ID)
		if err != nil {
			return err
		}
		deadline, countdown := "상시", "-"
		if p.Deadline != nil {
			deadline = p.Deadline.Format("2006-01-02")
			countdown = notifier.DDay(*p.Deadline, now)
		}
		fmt.Printf("%s %s %s %s %s %s\n",
			pad(fmt.Sprint(p.ID), 5), pad(deadline, 11), pad(countdown, 6),
			pad(applicationLabel(apps), 18), pad(truncate(p.CompanyName, 20), 20), p.JobTitle)
	}

	fmt.Printf("\nTotal: %d postings\n", len(postings))
	return nil
}

// applicationLabel shows the most recent application as "#id STATUS".
func applicationLabel(apps []model.Application) string {
	if len(apps) == 0 {
		return "-"
	}
	last := apps[len(apps)-1]
	return fmt.Sprintf("#%d %s", last.ID, last.Status)
}

// pad right-pads s to width terminal cells; Hangul is two cells wide.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > width-1 {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}
