package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/spf13/cobra"
)

// NewRunsCommand creates the runs command group
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runs",
		Aliases: []string{"run"},
		Short:   "Manage actor runs",
		Long:    "List, inspect, abort, and monitor actor runs",
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsGetCommand())
	cmd.AddCommand(newRunsAbortCommand())
	cmd.AddCommand(newRunsResurrectCommand())
	cmd.AddCommand(newRunsWaitCommand())
	cmd.AddCommand(newRunsLogCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	var (
		limit  int64
		desc   bool
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Long:  "List actor runs in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			opts := sapi.NewListOptions().WithLimit(limit).WithDesc(desc)
			opts.Status = status

			page, err := client.Runs().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Actor", "Status", "Started", "Finished")

			for _, run := range page.Items {
				_ = table.Append(
					run.ID,
					run.ActorID,
					run.Status,
					formatTime(run.StartedAt),
					formatTime(run.FinishedAt),
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
	cmd.Flags().StringVar(&status, "status", "", "filter by run status")

	return cmd
}

func renderRun(run *sapi.Run) error {
	rendered, err := renderStructured(run)
	if rendered || err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("ID", run.ID)
	_ = table.Append("Actor", run.ActorID)
	_ = table.Append("Status", run.Status)
	_ = table.Append("Status Message", orNA(run.StatusMessage))
	_ = table.Append("Started", formatTime(run.StartedAt))
	_ = table.Append("Finished", formatTime(run.FinishedAt))
	_ = table.Append("Dataset", orNA(run.DefaultDatasetID))
	_ = table.Append("Key-Value Store", orNA(run.DefaultStoreID))
	_ = table.Append("Request Queue", orNA(run.DefaultQueueID))

	if run.ExitCode != nil {
		_ = table.Append("Exit Code", fmt.Sprintf("%d", *run.ExitCode))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newRunsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RUN_ID",
		Short: "Get run details",
		Long:  "Display detailed information about a specific run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			run, err := client.Runs().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}

			return renderRun(run)
		},
	}
}

func newRunsAbortCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abort RUN_ID",
		Short: "Abort a run",
		Long:  "Abort a running actor run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			run, err := client.Runs().Abort(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to abort run: %w", err)
			}

			fmt.Printf("Run %s is %s\n", run.ID, run.Status)

			return nil
		},
	}
}

func newRunsResurrectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resurrect RUN_ID",
		Short: "Resurrect a run",
		Long:  "Restart a finished actor run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			run, err := client.Runs().Resurrect(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to resurrect run: %w", err)
			}

			fmt.Printf("Run %s is %s\n", run.ID, run.Status)

			return nil
		},
	}
}

func newRunsWaitCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait RUN_ID",
		Short: "Wait for a run to finish",
		Long:  "Block until the run reaches a terminal status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			run, err := client.Runs().WaitForFinish(context.Background(), args[0], timeout)
			if err != nil {
				if run != nil {
					fmt.Printf("Run %s is %s\n", run.ID, run.Status)
				}

				return fmt.Errorf("waiting for run: %w", err)
			}

			return renderRun(run)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "maximum time to wait (default 5m)")

	return cmd
}

func newRunsLogCommand() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "log RUN_ID",
		Short: "Show run logs",
		Long:  "Print the log of an actor run, optionally streaming it live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if !follow {
				log, err := client.Logs().Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get log: %w", err)
				}

				fmt.Print(log)

				return nil
			}

			stream, err := client.Logs().Stream(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to open log stream: %w", err)
			}
			defer func() { _ = stream.Close() }()

			for {
				chunk, err := stream.Next()
				if errors.Is(err, io.EOF) {
					return nil
				}

				if err != nil {
					return fmt.Errorf("reading log stream: %w", err)
				}

				_, _ = os.Stdout.Write(chunk)
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "stream the log as it grows")

	return cmd
}
