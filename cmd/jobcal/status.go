package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status <application-id> <status>",
	Short: "Update an application's status",
	Long: "Sets the status of an application. Valid statuses: " + statusNames() + ".\n" +
		"Postings whose applications are all REJECTED or ACCEPTED are skipped by deadline reminders.",
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusNames() string {
	names := make([]string, len(model.ApplicationStatuses))
	for i, s := range model.ApplicationStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid application id %q", args[0])
	}
	status, err := model.ParseApplicationStatus(args[1])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.UpdateApplicationStatus(context.Background(), id, status); err != nil {
		return err
	}
	fmt.Printf("application #%d: %s\n", id, status)
	return nil
}
