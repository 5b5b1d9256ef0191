package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/spf13/cobra"
)

// NewSchedulesCommand creates the schedules command group
func NewSchedulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedules",
		Aliases: []string{"schedule"},
		Short:   "Manage schedules",
		Long:    "List, create, and delete cron-style actor schedules",
	}

	cmd.AddCommand(newSchedulesListCommand())
	cmd.AddCommand(newSchedulesGetCommand())
	cmd.AddCommand(newSchedulesCreateCommand())
	cmd.AddCommand(newSchedulesDeleteCommand())

	return cmd
}

func newSchedulesListCommand() *cobra.Command {
	var (
		limit int64
		desc  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		Long:  "List schedules in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Schedules().List(context.Background(), sapi.NewListOptions().WithLimit(limit).WithDesc(desc))
			if err != nil {
				return fmt.Errorf("failed to list schedules: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Cron", "Enabled", "Next Run")

			for _, schedule := range page.Items {
				_ = table.Append(
					schedule.ID,
					schedule.Name,
					schedule.CronExpression,
					strconv.FormatBool(schedule.IsEnabled),
					formatTime(schedule.NextRunAt),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 0, "page size")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")

	return cmd
}

func newSchedulesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SCHEDULE_ID",
		Short: "Get schedule details",
		Long:  "Display detailed information about a specific schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			schedule, err := client.Schedules().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get schedule: %w", err)
			}

			rendered, err := renderStructured(schedule)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", schedule.ID)
			_ = table.Append("Name", schedule.Name)
			_ = table.Append("Cron", schedule.CronExpression)
			_ = table.Append("Timezone", orNA(schedule.Timezone))
			_ = table.Append("Enabled", strconv.FormatBool(schedule.IsEnabled))
			_ = table.Append("Next Run", formatTime(schedule.NextRunAt))
			_ = table.Append("Last Run", formatTime(schedule.LastRunAt))

			for _, action := range schedule.Actions {
				_ = table.Append("Action", fmt.Sprintf("%s %s", action.Type, action.ActorID))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newSchedulesCreateCommand() *cobra.Command {
	var (
		name     string
		cron     string
		timezone string
		actorID  string
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a schedule",
		Long:  "Create a cron-style schedule that starts an actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cron == "" {
				return ErrScheduleCronFlag
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &sapi.ScheduleCreateRequest{
				Name:           name,
				CronExpression: cron,
				Timezone:       timezone,
				IsEnabled:      !disabled,
			}

			if actorID != "" {
				request.Actions = []sapi.ScheduleAction{{Type: "RUN_ACTOR", ActorID: actorID}}
			}

			schedule, err := client.Schedules().Create(context.Background(), request)
			if err != nil {
				return fmt.Errorf("failed to create schedule: %w", err)
			}

			fmt.Printf("Created schedule %s\n", schedule.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "schedule name")
	cmd.Flags().StringVar(&cron, "cron", "", "cron expression")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for the cron expression")
	cmd.Flags().StringVar(&actorID, "actor", "", "actor to start when the schedule fires")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the schedule disabled")

	return cmd
}

func newSchedulesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete SCHEDULE_ID",
		Short: "Delete a schedule",
		Long:  "Permanently delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Schedules().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete schedule: %w", err)
			}

			fmt.Printf("Deleted schedule %s\n", args[0])

			return nil
		},
	}
}
