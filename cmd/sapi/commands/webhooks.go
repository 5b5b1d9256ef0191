package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/spf13/cobra"
)

// NewWebhooksCommand creates the webhooks command group
func NewWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook"},
		Short:   "Manage webhooks",
		Long:    "List, create, and delete webhook subscriptions and inspect their dispatches",
	}

	cmd.AddCommand(newWebhooksListCommand())
	cmd.AddCommand(newWebhooksGetCommand())
	cmd.AddCommand(newWebhooksCreateCommand())
	cmd.AddCommand(newWebhooksDeleteCommand())
	cmd.AddCommand(newWebhooksDispatchesCommand())

	return cmd
}

func newWebhooksListCommand() *cobra.Command {
	var (
		limit int64
		desc  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Long:  "List webhook subscriptions in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Webhooks().List(context.Background(), sapi.NewListOptions().WithLimit(limit).WithDesc(desc))
			if err != nil {
				return fmt.Errorf("failed to list webhooks: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Events", "URL", "Created")

			for _, webhook := range page.Items {
				_ = table.Append(
					webhook.ID,
					strings.Join(webhook.EventTypes, ","),
					truncate(webhook.RequestURL),
					webhook.CreatedAt.Format(timeFormat),
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

func newWebhooksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get WEBHOOK_ID",
		Short: "Get webhook details",
		Long:  "Display detailed information about a specific webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get webhook: %w", err)
			}

			rendered, err := renderStructured(webhook)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", webhook.ID)
			_ = table.Append("Events", strings.Join(webhook.EventTypes, ","))
			_ = table.Append("URL", webhook.RequestURL)
			_ = table.Append("Ad Hoc", fmt.Sprintf("%t", webhook.IsAdHoc))
			_ = table.Append("Created", webhook.CreatedAt.Format(timeFormat))
			_ = table.Append("Modified", webhook.ModifiedAt.Format(timeFormat))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newWebhooksCreateCommand() *cobra.Command {
	var (
		requestURL string
		eventTypes []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a webhook",
		Long:  "Create a webhook subscription for run events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if requestURL == "" {
				return ErrWebhookURLFlag
			}

			if len(eventTypes) == 0 {
				return ErrWebhookEventTypesFlag
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Create(context.Background(), &sapi.WebhookCreateRequest{
				RequestURL: requestURL,
				EventTypes: eventTypes,
			})
			if err != nil {
				return fmt.Errorf("failed to create webhook: %w", err)
			}

			fmt.Printf("Created webhook %s\n", webhook.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&requestURL, "url", "", "URL the webhook posts to")
	cmd.Flags().StringSliceVar(&eventTypes, "event", nil, "event type to subscribe to (repeatable)")

	return cmd
}

func newWebhooksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete WEBHOOK_ID",
		Short: "Delete a webhook",
		Long:  "Permanently delete a webhook subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Webhooks().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete webhook: %w", err)
			}

			fmt.Printf("Deleted webhook %s\n", args[0])

			return nil
		},
	}
}

func newWebhooksDispatchesCommand() *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "dispatches WEBHOOK_ID",
		Short: "List webhook dispatches",
		Long:  "List delivery attempts for a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Webhooks().ListDispatches(context.Background(), args[0], sapi.NewListOptions().WithLimit(limit))
			if err != nil {
				return fmt.Errorf("failed to list dispatches: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Event", "Status", "Created")

			for _, dispatch := range page.Items {
				_ = table.Append(
					dispatch.ID,
					dispatch.EventType,
					dispatch.Status,
					dispatch.CreatedAt.Format(timeFormat),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 0, "page size")

	return cmd
}
