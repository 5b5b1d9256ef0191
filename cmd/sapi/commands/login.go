package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/scrapeworks-io/sapi/pkg/swclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		token       string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to ScrapeWorks",
		Long:  "Store an API token for a ScrapeWorks endpoint after verifying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("endpoint")
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return ErrNoEndpointConfigured
			}

			if token == "" {
				token = viper.GetString("token")
			}

			if token == "" {
				fmt.Print("API token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))

				fmt.Println()

				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				token = strings.TrimSpace(string(byteToken))
			}

			if token == "" {
				return ErrTokenRequired
			}

			// Verify the credentials before persisting them.
			client, err := swclient.NewWithToken(apiEndpoint, token)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := context.Background()

			user, err := client.Users().Me(ctx)
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			config := loadConfig()
			config.Endpoint = apiEndpoint
			config.Token = token

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Logged in to %s as %s\n", apiEndpoint, user.Username)

			return nil
		},
	}

	cmd.Flags().StringVar(&apiEndpoint, "endpoint", "", "API endpoint URL")
	cmd.Flags().StringVar(&token, "with-token", "", "API token (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from ScrapeWorks",
		Long:  "Discard the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.Token == "" {
				fmt.Println("Not logged in")

				return nil
			}

			config.Token = ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}
