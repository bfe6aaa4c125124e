package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alfasin/ttsync/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

var ErrUnauthenticated = fmt.Errorf("not authenticated with Google, run the auth flow first")

// Auth manages the OAuth2 credentials for the Google Calendar API. The token
// is cached in a JSON file next to the config.
type Auth struct {
	oauthConfig *oauth2.Config
	tokenFile   string
}

func NewAuth(cfg config.Google) *Auth {
	return &Auth{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientId,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     googleoauth.Endpoint,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{gcal.CalendarReadonlyScope},
		},
		tokenFile: cfg.TokenFile,
	}
}

// AuthURL returns the URL the operator must visit to authorize access.
func (a *Auth) AuthURL() string {
	return a.oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and caches it.
func (a *Auth) Exchange(ctx context.Context, code string) error {
	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return a.saveToken(token)
}

// Client returns an HTTP client that refreshes and re-persists the cached
// token as needed.
func (a *Auth) Client(ctx context.Context) (*http.Client, error) {
	token, err := a.loadToken()
	if err != nil {
		log.Debugf("No usable Google token at %s: %v", a.tokenFile, err)
		return nil, ErrUnauthenticated
	}
	return a.oauthConfig.Client(ctx, token), nil
}

func (a *Auth) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenFile)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

func (a *Auth) saveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenFile), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	log.Infof("Stored Google token at %s", a.tokenFile)
	return nil
}
