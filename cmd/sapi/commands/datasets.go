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

// NewDatasetsCommand creates the datasets command group
func NewDatasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset", "ds"},
		Short:   "Manage datasets",
		Long:    "List datasets and read, push, or export their items",
	}

	cmd.AddCommand(newDatasetsListCommand())
	cmd.AddCommand(newDatasetsGetCommand())
	cmd.AddCommand(newDatasetsItemsCommand())
	cmd.AddCommand(newDatasetsPushCommand())
	cmd.AddCommand(newDatasetsDownloadCommand())
	cmd.AddCommand(newDatasetsDeleteCommand())

	return cmd
}

func newDatasetsListCommand() *cobra.Command {
	var (
		limit int64
		desc  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		Long:  "List datasets in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Datasets().List(context.Background(), sapi.NewListOptions().WithLimit(limit).WithDesc(desc))
			if err != nil {
				return fmt.Errorf("failed to list datasets: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Items", "Modified")

			for _, dataset := range page.Items {
				_ = table.Append(
					dataset.ID,
					orNA(dataset.Name),
					strconv.FormatInt(dataset.ItemCount, 10),
					dataset.ModifiedAt.Format(timeFormat),
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

func newDatasetsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DATASET_ID",
		Short: "Get dataset details",
		Long:  "Display detailed information about a specific dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			dataset, err := client.Datasets().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get dataset: %w", err)
			}

			rendered, err := renderStructured(dataset)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", dataset.ID)
			_ = table.Append("Name", orNA(dataset.Name))
			_ = table.Append("Items", strconv.FormatInt(dataset.ItemCount, 10))
			_ = table.Append("Actor", orNA(dataset.ActorID))
			_ = table.Append("Run", orNA(dataset.ActorRunID))
			_ = table.Append("Created", dataset.CreatedAt.Format(timeFormat))
			_ = table.Append("Modified", dataset.ModifiedAt.Format(timeFormat))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newDatasetsItemsCommand() *cobra.Command {
	var (
		limit    int64
		offset   int64
		desc     bool
		allItems bool
	)

	cmd := &cobra.Command{
		Use:   "items DATASET_ID",
		Short: "Read dataset items",
		Long:  "Print dataset items as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			opts := sapi.NewListOptions().WithOffset(offset).WithLimit(limit).WithDesc(desc)

			var items []sapi.DatasetItem

			if allItems {
				items, err = client.Datasets().CollectItems(ctx, args[0], opts)
				if err != nil {
					return fmt.Errorf("failed to collect items: %w", err)
				}
			} else {
				page, err := client.Datasets().ListItems(ctx, args[0], opts)
				if err != nil {
					return fmt.Errorf("failed to list items: %w", err)
				}

				items = page.Items
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(items)
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 0, "page size")
	cmd.Flags().Int64Var(&offset, "offset", 0, "items to skip")
	cmd.Flags().BoolVar(&desc, "desc", false, "newest items first")
	cmd.Flags().BoolVar(&allItems, "all", false, "fetch all pages")

	return cmd
}

func newDatasetsPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push DATASET_ID JSON",
		Short: "Push items into a dataset",
		Long:  "Append one item (JSON object) or several (JSON array) to a dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			payload := []byte(args[1])

			var items []sapi.DatasetItem

			// Accept either a single object or an array of objects.
			err = json.Unmarshal(payload, &items)
			if err != nil {
				var item sapi.DatasetItem

				err = json.Unmarshal(payload, &item)
				if err != nil {
					return fmt.Errorf("invalid item JSON: %w", err)
				}

				items = []sapi.DatasetItem{item}
			}

			err = client.Datasets().PushItems(context.Background(), args[0], items...)
			if err != nil {
				return fmt.Errorf("failed to push items: %w", err)
			}

			fmt.Printf("Pushed %d item(s)\n", len(items))

			return nil
		},
	}
}

func newDatasetsDownloadCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "download DATASET_ID PATH",
		Short: "Download dataset items to a file",
		Long:  "Stream the dataset's items into a local file in the requested format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Datasets().DownloadItems(context.Background(), args[0], format, args[1])
			if err != nil {
				return fmt.Errorf("failed to download items: %w", err)
			}

			fmt.Printf("Saved %s\n", args[1])

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "export format (json, jsonl, csv, xlsx)")

	return cmd
}

func newDatasetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATASET_ID",
		Short: "Delete a dataset",
		Long:  "Permanently delete a dataset and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Datasets().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete dataset: %w", err)
			}

			fmt.Printf("Deleted dataset %s\n", args[0])

			return nil
		},
	}
}
