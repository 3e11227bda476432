package osuapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
)

const testSecret = "abcdefghijABCDEFGHIJ0123456789abcdefghij"

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		creds Credentials
		valid bool
	}{
		{Credentials{"1234", testSecret}, true},
		{Credentials{"", testSecret}, false},
		{Credentials{"abc", testSecret}, false},
		{Credentials{"1234", "short"}, false},
		{Credentials{"1234", strings.Repeat("-", 40)}, false},
	}

	for _, tt := range tests {
		err := tt.creds.Validate()
		if tt.valid && err != nil {
			t.Errorf("%+v: unexpected error %v", tt.creds, err)
		}

		if !tt.valid && !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%+v: expected ErrInvalidCredentials, got %v", tt.creds, err)
		}
	}
}

func newAPIServer(t *testing.T, tokenStatus int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var tokens atomic.Int32

	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokens.Add(1)

		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse token request: %v", err)
		}

		if r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("scope") != "public" {
			t.Errorf("unexpected token request %v", r.PostForm)
		}

		w.Header().Set("Content-Type", "application/json")

		if tokenStatus != http.StatusOK {
			w.WriteHeader(tokenStatus)
			w.Write([]byte(`{"error":"invalid_client"}`))

			return
		}

		w.Write([]byte(`{"access_token":"token-1","token_type":"Bearer","expires_in":86400}`))
	})

	mux.HandleFunc("/api/v2/users/2/scores/best", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		if r.Header.Get("x-api-version") != APIVersion {
			t.Errorf("missing api version header")
		}

		if r.URL.Query().Get("mode") != "mania" || r.URL.Query().Get("limit") != "2" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}

		w.Write([]byte(`[{"id":1,"max_combo":100},{"id":2,"max_combo":200}]`))
	})

	mux.HandleFunc("/api/v2/beatmaps/999944/solo-scores", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["mods[]"]; len(got) != 2 || got[0] != "HD" || got[1] != "DT" {
			t.Errorf("unexpected mods filter %v", got)
		}

		w.Write([]byte(`{"scores":[{"id":3,"mods":[{"acronym":"HD"},{"acronym":"DT"}]}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &tokens
}

func TestClient_Requests(t *testing.T) {
	srv, tokens := newAPIServer(t, http.StatusOK)

	client, err := NewClient(Credentials{"1234", testSecret}, ClientOptions{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	best, err := client.UserBest(context.Background(), 2, difficulty.Mania, 2)
	if err != nil {
		t.Fatalf("UserBest: %v", err)
	}

	if len(best) != 2 || !strings.Contains(string(best[1]), `"id":2`) {
		t.Errorf("unexpected scores %q", best)
	}

	scores, err := client.BeatmapScores(context.Background(), 999944, difficulty.Hidden|difficulty.Nightcore)
	if err != nil {
		t.Fatalf("BeatmapScores: %v", err)
	}

	if len(scores) != 1 {
		t.Errorf("expected one score, got %d", len(scores))
	}

	if n := tokens.Load(); n != 1 {
		t.Errorf("expected the token to be reused, fetched %d times", n)
	}

	_, err = client.Get(context.Background(), "/missing", nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 StatusError, got %v", err)
	}
}

func TestClient_RejectedCredentials(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusUnauthorized)

	client, err := NewClient(Credentials{"1234", testSecret}, ClientOptions{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.UserBest(context.Background(), 2, difficulty.Mania, 2); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestNewClient_InvalidCredentials(t *testing.T) {
	if _, err := NewClient(Credentials{"abc", testSecret}, ClientOptions{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
