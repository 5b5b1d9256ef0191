package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "account"},
		Short:   "Account information",
		Long:    "Inspect the authenticated account and its platform usage",
	}

	cmd.AddCommand(newUsersMeCommand())
	cmd.AddCommand(newUsersUsageCommand())

	return cmd
}

func newUsersMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated account",
		Long:  "Display the account the configured token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Me(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			rendered, err := renderStructured(user)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", user.ID)
			_ = table.Append("Username", user.Username)
			_ = table.Append("Email", orNA(user.Email))
			_ = table.Append("Plan", orNA(user.Plan))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newUsersUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show platform usage",
		Long:  "Display the account's platform usage for the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			usage, err := client.Users().UsageSummary(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get usage: %w", err)
			}

			rendered, err := renderStructured(usage)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Monthly Usage (USD)", strconv.FormatFloat(usage.MonthlyUsageUSD, 'f', 2, 64))
			_ = table.Append("Compute Units", strconv.FormatFloat(usage.ComputeUnits, 'f', 3, 64))
			_ = table.Append("Dataset Reads", strconv.FormatInt(usage.DatasetReads, 10))
			_ = table.Append("Dataset Writes", strconv.FormatInt(usage.DatasetWrites, 10))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
