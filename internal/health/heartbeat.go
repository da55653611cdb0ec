// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Heartbeat paths, newest API first.
var heartbeatPaths = []string{"/api/v2/heartbeat", "/api/v1/heartbeat"}

// ErrHeartbeat is returned when the server does not answer its heartbeat.
var ErrHeartbeat = errors.New("heartbeat failed")

// HeartbeatResult is the decoded heartbeat answer.
type HeartbeatResult struct {
	Path string
	// Nanoseconds is the server clock reported by Chroma.
	Nanoseconds int64
}

type heartbeatBody struct {
	Nanoseconds int64 `json:"nanosecond heartbeat"`
}

// Heartbeat calls the Chroma heartbeat endpoint under baseURL. It tries the
// v2 path and falls back to v1 when v2 answers 404.
func Heartbeat(ctx context.Context, client *http.Client, baseURL string) (HeartbeatResult, error) {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(baseURL, "/")

	var lastErr error
	for _, path := range heartbeatPaths {
		res, notFound, err := heartbeatOnce(ctx, client, base+path)
		if err == nil {
			res.Path = path
			return res, nil
		}
		lastErr = err
		if !notFound {
			break
		}
	}
	return HeartbeatResult{}, lastErr
}

func heartbeatOnce(ctx context.Context, client *http.Client, url string) (HeartbeatResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HeartbeatResult{}, false, fmt.Errorf("%w: %v", ErrHeartbeat, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return HeartbeatResult{}, false, fmt.Errorf("%w: %v", ErrHeartbeat, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return HeartbeatResult{}, true, fmt.Errorf("%w: %s: %s", ErrHeartbeat, url, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return HeartbeatResult{}, false, fmt.Errorf("%w: %s: %s", ErrHeartbeat, url, resp.Status)
	}

	var body heartbeatBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return HeartbeatResult{}, false, fmt.Errorf("%w: decode %s: %v", ErrHeartbeat, url, err)
	}
	return HeartbeatResult{Nanoseconds: body.Nanoseconds}, false, nil
}
