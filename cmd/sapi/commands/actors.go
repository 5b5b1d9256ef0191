package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/spf13/cobra"
)

// NewActorsCommand creates the actors command group
func NewActorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "actors",
		Aliases: []string{"actor"},
		Short:   "Manage actors",
		Long:    "List, inspect, start, and delete scraping actors",
	}

	cmd.AddCommand(newActorsListCommand())
	cmd.AddCommand(newActorsGetCommand())
	cmd.AddCommand(newActorsStartCommand())
	cmd.AddCommand(newActorsDeleteCommand())

	return cmd
}

func newActorsListCommand() *cobra.Command {
	var (
		limit    int64
		desc     bool
		allItems bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List actors",
		Long:  "List actors in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			opts := sapi.NewListOptions().WithLimit(limit).WithDesc(desc)

			var actors []sapi.Actor

			if allItems {
				actors, err = client.Actors().ListAll(ctx, opts)
				if err != nil {
					return fmt.Errorf("failed to list actors: %w", err)
				}
			} else {
				page, err := client.Actors().List(ctx, opts)
				if err != nil {
					return fmt.Errorf("failed to list actors: %w", err)
				}

				actors = page.Items
			}

			rendered, err := renderStructured(actors)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Title", "Public", "Modified")

			for _, actor := range actors {
				_ = table.Append(
					actor.ID,
					actor.Name,
					truncate(orNA(actor.Title)),
					strconv.FormatBool(actor.IsPublic),
					actor.ModifiedAt.Format(timeFormat),
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
	cmd.Flags().BoolVar(&allItems, "all", false, "fetch all pages")

	return cmd
}

func newActorsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ACTOR_ID",
		Short: "Get actor details",
		Long:  "Display detailed information about a specific actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			actor, err := client.Actors().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get actor: %w", err)
			}

			rendered, err := renderStructured(actor)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", actor.ID)
			_ = table.Append("Name", actor.Name)
			_ = table.Append("Username", actor.Username)
			_ = table.Append("Title", orNA(actor.Title))
			_ = table.Append("Description", truncate(orNA(actor.Description)))
			_ = table.Append("Public", strconv.FormatBool(actor.IsPublic))
			_ = table.Append("Created", actor.CreatedAt.Format(timeFormat))
			_ = table.Append("Modified", actor.ModifiedAt.Format(timeFormat))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newActorsStartCommand() *cobra.Command {
	var (
		inputJSON   string
		build       string
		timeoutSecs int
		memoryMB    int
		wait        bool
	)

	cmd := &cobra.Command{
		Use:   "start ACTOR_ID",
		Short: "Start an actor run",
		Long:  "Start a run of the given actor, optionally waiting for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			var input interface{}

			if inputJSON != "" {
				err = json.Unmarshal([]byte(inputJSON), &input)
				if err != nil {
					return fmt.Errorf("invalid --input JSON: %w", err)
				}
			}

			opts := &sapi.RunOptions{
				Build:       build,
				TimeoutSecs: timeoutSecs,
				MemoryMB:    memoryMB,
			}

			ctx := context.Background()

			var run *sapi.Run

			if wait {
				run, err = client.Actors().Call(ctx, args[0], input, opts)
			} else {
				run, err = client.Actors().Start(ctx, args[0], input, opts)
			}

			if err != nil {
				return fmt.Errorf("failed to start actor: %w", err)
			}

			rendered, err := renderStructured(run)
			if rendered || err != nil {
				return err
			}

			fmt.Printf("Run %s is %s\n", run.ID, run.Status)

			return nil
		},
	}

	cmd.Flags().StringVar(&inputJSON, "input", "", "run input as a JSON document")
	cmd.Flags().StringVar(&build, "build", "", "build to run")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "run timeout in seconds")
	cmd.Flags().IntVar(&memoryMB, "memory", 0, "run memory in megabytes")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the run to finish")

	return cmd
}

func newActorsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ACTOR_ID",
		Short: "Delete an actor",
		Long:  "Permanently delete an actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.Actors().Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete actor: %w", err)
			}

			fmt.Printf("Deleted actor %s\n", args[0])

			return nil
		},
	}
}
