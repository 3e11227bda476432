package osuapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/logger"
)

// DifficultySource returns the raw difficulty document of a beatmap.
type DifficultySource interface {
	FetchDifficulty(ctx context.Context, beatmapID int64, mode difficulty.GameMode) ([]byte, error)
}

// DifficultyProvider fetches precomputed attributes from an osu.lea.moe
// compatible service: GET {base}/b/{id}?mode={n}.
type DifficultyProvider struct {
	baseURL *url.URL
	client  *http.Client
}

func NewDifficultyProvider(baseURL string, timeout time.Duration) (*DifficultyProvider, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("osuapi: not a valid url: %q", baseURL)
	}

	return &DifficultyProvider{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (p *DifficultyProvider) FetchDifficulty(ctx context.Context, beatmapID int64, mode difficulty.GameMode) ([]byte, error) {
	target := p.baseURL.JoinPath("b", strconv.FormatInt(beatmapID, 10))
	target.RawQuery = url.Values{"mode": {strconv.Itoa(int(mode))}}.Encode()

	logger.Debug("fetching difficulty", "beatmap", beatmapID, "mode", mode.String(), "url", target.String())

	body, err := get(ctx, p.client, target.String(), nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: %d", ErrBeatmapNotFound, beatmapID)
			}

			return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}

		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("osuapi: malformed difficulty document for beatmap %d", beatmapID)
	}

	return body, nil
}

// get performs a GET and returns the body of a 2xx response. Transport
// failures are wrapped in ErrUnreachable.
func get(ctx context.Context, client *http.Client, target string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrUnreachable, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	return body, nil
}
