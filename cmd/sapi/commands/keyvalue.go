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

// NewKeyValueStoresCommand creates the key-value stores command group
func NewKeyValueStoresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "key-value-stores",
		Aliases: []string{"kvs", "stores"},
		Short:   "Manage key-value stores",
		Long:    "List key-value stores and read or write their records",
	}

	cmd.AddCommand(newStoresListCommand())
	cmd.AddCommand(newStoresKeysCommand())
	cmd.AddCommand(newStoresGetRecordCommand())
	cmd.AddCommand(newStoresDownloadRecordCommand())
	cmd.AddCommand(newStoresSetRecordCommand())
	cmd.AddCommand(newStoresDeleteRecordCommand())
	cmd.AddCommand(newStoresDeleteCommand())

	return cmd
}

func newStoresListCommand() *cobra.Command {
	var (
		limit int64
		desc  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List key-value stores",
		Long:  "List key-value stores in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.KeyValueStores().List(context.Background(), sapi.NewListOptions().WithLimit(limit).WithDesc(desc))
			if err != nil {
				return fmt.Errorf("failed to list key-value stores: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Modified")

			for _, store := range page.Items {
				_ = table.Append(store.ID, orNA(store.Name), store.ModifiedAt.Format(timeFormat))
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

func newStoresKeysCommand() *cobra.Command {
	var (
		limit             int64
		exclusiveStartKey string
	)

	cmd := &cobra.Command{
		Use:   "keys STORE_ID",
		Short: "List keys in a store",
		Long:  "List record keys in a key-value store, with their sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			opts := sapi.NewListOptions().WithLimit(limit)
			opts.ExclusiveStartKey = exclusiveStartKey

			page, err := client.KeyValueStores().ListKeys(context.Background(), args[0], opts)
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}

			rendered, err := renderStructured(page.Items)
			if rendered || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Key", "Size")

			for _, key := range page.Items {
				_ = table.Append(key.Key, strconv.FormatInt(key.Size, 10))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&exclusiveStartKey, "start-key", "", "list keys after this one")

	return cmd
}

func newStoresGetRecordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-record STORE_ID KEY",
		Short: "Get a record",
		Long:  "Print a record's value to standard output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			record, err := client.KeyValueStores().GetRecord(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get record: %w", err)
			}

			_, err = os.Stdout.Write(record.Value)

			return err
		},
	}
}

func newStoresDownloadRecordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "download-record STORE_ID KEY PATH",
		Short: "Download a record to a file",
		Long:  "Stream a record's value into a local file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.KeyValueStores().DownloadRecord(context.Background(), args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("failed to download record: %w", err)
			}

			fmt.Printf("Saved %s\n", args[2])

			return nil
		},
	}
}

func newStoresSetRecordCommand() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "set-record STORE_ID KEY VALUE",
		Short: "Set a record",
		Long:  "Write a record into a key-value store",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.KeyValueStores().SetRecord(context.Background(), args[0], args[1], []byte(args[2]), contentType)
			if err != nil {
				return fmt.Errorf("failed to set record: %w", err)
			}

			fmt.Printf("Set record %s\n", args[1])

			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "application/json", "record content type")

	return cmd
}

func newStoresDeleteRecordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-record STORE_ID KEY",
		Short: "Delete a record",
		Long:  "Delete a record from a key-value store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.KeyValueStores().DeleteRecord(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}

			fmt.Printf("Deleted record %s\n", args[1])

			return nil
		},
	}
}

func newStoresDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete STORE_ID",
		Short: "Delete a key-value store",
		Long:  "Permanently delete a key-value store and its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.KeyValueStores().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete key-value store: %w", err)
			}

			fmt.Printf("Deleted key-value store %s\n", args[0])

			return nil
		},
	}
}
