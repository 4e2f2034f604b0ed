package gmail

import (
	"context"
	"fmt"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested for the office inbox. Modify covers read, label, and trash.
var oauthScopes = []string{
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
}

// NewOAuthConfig builds the OAuth2 config for the Gmail integration.
func NewOAuthConfig(cfg config.GmailConfig) (*oauth2.Config, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("gmail integration is not configured")
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       oauthScopes,
		Endpoint:     google.Endpoint,
	}, nil
}

// AuthURL returns the consent page URL for the authorization code flow.
// State is round-tripped so the callback can be validated.
func AuthURL(cfg config.GmailConfig, state string) (string, error) {
	oauthCfg, err := NewOAuthConfig(cfg)
	if err != nil {
		return "", err
	}
	return oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// ExchangeCode trades an authorization code for a token.
func ExchangeCode(ctx context.Context, cfg config.GmailConfig, code string) (*oauth2.Token, error) {
	oauthCfg, err := NewOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}
