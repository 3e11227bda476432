package osuapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/logger"
)

const APIVersion = "20240130"

var clientSecretFormat = regexp.MustCompile(`^[a-zA-Z0-9]{40}$`)

type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required", ErrInvalidCredentials)
	}

	if _, err := strconv.ParseUint(c.ClientID, 10, 64); err != nil {
		return fmt.Errorf("%w: client id has to be a number", ErrInvalidCredentials)
	}

	if !clientSecretFormat.MatchString(c.ClientSecret) {
		return fmt.Errorf("%w: client secret not a valid format", ErrInvalidCredentials)
	}

	return nil
}

type ClientOptions struct {
	BaseURL  string
	TokenURL string
	Timeout  time.Duration
}

// Client is an osu! API v2 client authorized with the client credentials
// grant. Tokens are fetched on first use and refreshed when they expire.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(creds Credentials, opts ClientOptions) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if opts.BaseURL == "" {
		opts.BaseURL = "https://osu.ppy.sh"
	}

	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	if opts.TokenURL == "" {
		opts.TokenURL = opts.BaseURL + "/oauth/token"
	}

	config := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     opts.TokenURL,
		Scopes:       []string{"public"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	base := &http.Client{Timeout: opts.Timeout}

	// the token endpoint is reached through base as well
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	httpClient := config.Client(ctx)
	httpClient.Timeout = opts.Timeout

	return &Client{
		baseURL: opts.BaseURL + "/api/v2",
		http:    httpClient,
	}, nil
}

// Get requests an API v2 path like "/users/2/scores/best" and returns the raw body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	logger.Debug("api v2 request", "path", path)

	body, err := get(ctx, c.http, target, http.Header{"x-api-version": {APIVersion}})
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, retrieveErr)
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}

		return nil, err
	}

	return body, nil
}

// UserBest returns the raw JSON of a user's top plays in the given mode.
func (c *Client) UserBest(ctx context.Context, userID int64, mode difficulty.GameMode, limit int) ([][]byte, error) {
	params := url.Values{"mode": {mode.String()}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.Get(ctx, fmt.Sprintf("/users/%d/scores/best", userID), params)
	if err != nil {
		return nil, err
	}

	return splitArray(gjson.ParseBytes(body)), nil
}

// BeatmapScores returns the raw JSON of the leaderboard of a beatmap,
// optionally filtered to plays with exactly the given mods.
func (c *Client) BeatmapScores(ctx context.Context, beatmapID int64, mods difficulty.Modifier) ([][]byte, error) {
	params := url.Values{}

	for _, code := range strings.Split(mods.String(), ",") {
		if code != "" {
			params.Add("mods[]", code)
		}
	}

	body, err := c.Get(ctx, fmt.Sprintf("/beatmaps/%d/solo-scores", beatmapID), params)
	if err != nil {
		return nil, err
	}

	return splitArray(gjson.GetBytes(body, "scores")), nil
}

func splitArray(result gjson.Result) [][]byte {
	items := result.Array()

	out := make([][]byte, 0, len(items))
	for _, item := range items {
		out = append(out, []byte(item.Raw))
	}

	return out
}
