// Package osuapi talks to the services a performance calculation depends on:
// a difficulty attribute provider and the osu! API v2.
package osuapi

import (
	"errors"
	"fmt"
)

var (
	ErrBeatmapNotFound    = errors.New("beatmap not found")
	ErrUnreachable        = errors.New("service unreachable")
	ErrInvalidCredentials = errors.New("invalid api credentials")
)

// StatusError is returned for non-2xx responses that have no dedicated sentinel.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
