package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/scrapeworks-io/sapi/internal/constants"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/spf13/cobra"
)

// NewRequestQueuesCommand creates the request queues command group
func NewRequestQueuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request-queues",
		Aliases: []string{"queues", "rq"},
		Short:   "Manage request queues",
		Long:    "List request queues and add, inspect, or remove their requests",
	}

	cmd.AddCommand(newQueuesListCommand())
	cmd.AddCommand(newQueuesGetCommand())
	cmd.AddCommand(newQueuesHeadCommand())
	cmd.AddCommand(newQueuesAddRequestCommand())
	cmd.AddCommand(newQueuesDeleteCommand())

	return cmd
}

func newQueuesListCommand() *cobra.Command {
	var (
		limit int64
		desc  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List request queues",
		Long:  "List request queues in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.RequestQueues().List(context.Background(), sapi.NewListOptions().WithLimit(limit).WithDesc(desc))
			if err != nil {
				return fmt.Errorf("failed to list request queues: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Total", "Handled", "Pending")

			for _, queue := range page.Items {
				_ = table.Append(
					queue.ID,
					orNA(queue.Name),
					strconv.FormatInt(queue.TotalRequestCount, 10),
					strconv.FormatInt(queue.HandledRequestCount, 10),
					strconv.FormatInt(queue.PendingRequestCount, 10),
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

func newQueuesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get QUEUE_ID",
		Short: "Get request queue details",
		Long:  "Display detailed information about a specific request queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			queue, err := client.RequestQueues().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get request queue: %w", err)
			}

			rendered, err := renderStructured(queue)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", queue.ID)
			_ = table.Append("Name", orNA(queue.Name))
			_ = table.Append("Total Requests", strconv.FormatInt(queue.TotalRequestCount, 10))
			_ = table.Append("Handled Requests", strconv.FormatInt(queue.HandledRequestCount, 10))
			_ = table.Append("Pending Requests", strconv.FormatInt(queue.PendingRequestCount, 10))
			_ = table.Append("Created", queue.CreatedAt.Format(timeFormat))
			_ = table.Append("Modified", queue.ModifiedAt.Format(timeFormat))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newQueuesHeadCommand() *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "head QUEUE_ID",
		Short: "Peek at the queue head",
		Long:  "Show the oldest pending requests in a request queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			head, err := client.RequestQueues().ListHead(context.Background(), args[0], limit)
			if err != nil {
				return fmt.Errorf("failed to read queue head: %w", err)
			}

			rendered, err := renderStructured(head)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Method", "URL", "Retries")

			for _, request := range head.Items {
				_ = table.Append(
					request.ID,
					orNA(request.Method),
					truncate(request.URL),
					strconv.Itoa(request.Retries),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", constants.QueueHeadDefaultLimit, "maximum requests to return")

	return cmd
}

func newQueuesAddRequestCommand() *cobra.Command {
	var (
		method    string
		uniqueKey string
		userData  string
	)

	cmd := &cobra.Command{
		Use:   "add-request QUEUE_ID URL",
		Short: "Add a request to a queue",
		Long:  "Enqueue a URL for crawling",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &sapi.QueuedRequest{
				URL:       args[1],
				UniqueKey: args[1],
				Method:    method,
			}

			if uniqueKey != "" {
				request.UniqueKey = uniqueKey
			}

			if userData != "" {
				err = json.Unmarshal([]byte(userData), &request.UserData)
				if err != nil {
					return fmt.Errorf("invalid --user-data JSON: %w", err)
				}
			}

			info, err := client.RequestQueues().AddRequest(context.Background(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to add request: %w", err)
			}

			if info.WasAlreadyPresent {
				fmt.Printf("Request %s was already in the queue\n", info.RequestID)
			} else {
				fmt.Printf("Added request %s\n", info.RequestID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "GET", "HTTP method")
	cmd.Flags().StringVar(&uniqueKey, "unique-key", "", "deduplication key (defaults to the URL)")
	cmd.Flags().StringVar(&userData, "user-data", "", "arbitrary JSON attached to the request")

	return cmd
}

func newQueuesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete QUEUE_ID",
		Short: "Delete a request queue",
		Long:  "Permanently delete a request queue and its requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.RequestQueues().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete request queue: %w", err)
			}

			fmt.Printf("Deleted request queue %s\n", args[0])

			return nil
		},
	}
}
