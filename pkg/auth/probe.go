package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials holds the parameters for a client-credentials token exchange.
type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Probe performs an OAuth2 client-credentials exchange. It is the same
// request the injected collection script performs, run once from the CLI
// so credentials can be verified before they land in an environment.
func Probe(ctx context.Context, creds Credentials) (*oauth2.Token, error) {
	if creds.TokenURL == "" {
		return nil, fmt.Errorf("'token_url' parameter is required")
	}
	if creds.ClientID == "" {
		return nil, fmt.Errorf("'client_id' parameter is required")
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("'client_secret' parameter is required")
	}

	config := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		Scopes:       creds.Scopes,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("OAuth2 client_credentials flow failed: %w", err)
	}
	return token, nil
}

// FormatToken renders the token fields for terminal output.
func FormatToken(token *oauth2.Token) string {
	var sb strings.Builder

	sb.WriteString("OAuth2 Authentication Successful!\n\n")
	sb.WriteString(fmt.Sprintf("Access Token: %s\n", token.AccessToken))
	sb.WriteString(fmt.Sprintf("Token Type: %s\n", token.TokenType))

	if token.RefreshToken != "" {
		sb.WriteString(fmt.Sprintf("Refresh Token: %s\n", token.RefreshToken))
	}

	if !token.Expiry.IsZero() {
		sb.WriteString(fmt.Sprintf("Expires: %s\n", token.Expiry.Format("2006-01-02 15:04:05")))
	}

	return sb.String()
}
