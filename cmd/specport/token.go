package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/specport/pkg/auth"
)

var (
	tokenURL     string
	clientID     string
	clientSecret string
	tokenScopes  []string
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenURL, "token-url", "", "OAuth2 token endpoint (defaults to TOKEN_URL env var)")
	tokenCmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client identifier (defaults to CLIENT_ID env var)")
	tokenCmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (defaults to CLIENT_SECRET env var)")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scope", nil, "OAuth2 scopes to request")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange client credentials for an access token",
	Long: `Performs the same OAuth2 client-credentials exchange the generated
collection script runs, so credentials can be smoke-tested before they are
stored in a Postman environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load .env file if it exists (optional, warn if malformed)
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load .env file: %v\n", err)
		}

		creds := auth.Credentials{
			TokenURL:     tokenURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       tokenScopes,
		}
		if creds.TokenURL == "" {
			creds.TokenURL = viper.GetString("token_url")
		}
		if creds.ClientID == "" {
			creds.ClientID = viper.GetString("client_id")
		}
		if creds.ClientSecret == "" {
			creds.ClientSecret = viper.GetString("client_secret")
		}

		token, err := auth.Probe(context.Background(), creds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(auth.FormatToken(token))
	},
}
