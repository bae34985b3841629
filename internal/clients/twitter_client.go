package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/g8rswimmer/go-twitter/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	TWITTER_API_HOST  = "https://api.twitter.com"
	TWITTER_TOKEN_URL = "https://api.twitter.com/oauth2/token"
)

type TwitterCredentials struct {
	BearerToken  string
	ClientID     string
	ClientSecret string
	Host         string
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", a.token))
}

// oauth2 transports attach the token themselves.
type transportAuthorizer struct{}

func (transportAuthorizer) Add(*http.Request) {}

// NewTwitterClient prefers a static bearer token and falls back to the
// app-only client credentials grant.
func NewTwitterClient(ctx context.Context, creds TwitterCredentials, timeout time.Duration) (*twitter.Client, error) {
	host := creds.Host
	if host == "" {
		host = TWITTER_API_HOST
	}

	if creds.BearerToken != "" {
		slog.Info("[TwitterClient] Using bearer token authorization", slog.String("host", host))
		return &twitter.Client{
			Authorizer: bearerAuthorizer{token: creds.BearerToken},
			Client:     &http.Client{Timeout: timeout},
			Host:       host,
		}, nil
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, errors.New("[TwitterClient] missing TWITTER_BEARER_TOKEN or TWITTER_CLIENT_ID/TWITTER_CLIENT_SECRET")
	}

	oauthConfig := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     TWITTER_TOKEN_URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})
	httpClient := oauthConfig.Client(ctx)
	httpClient.Timeout = timeout

	slog.Info("[TwitterClient] Using client credentials authorization", slog.String("host", host))
	return &twitter.Client{
		Authorizer: transportAuthorizer{},
		Client:     httpClient,
		Host:       host,
	}, nil
}
