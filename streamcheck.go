// this file implements the bounded liveness probe for the audio stream
package main

import (
	"context"
	"net/http"
	"time"
)

const defaultProbeTimeout = 3 * time.Second

// probeStream checks that the stream endpoint is reachable and answers
// within timeout. It always returns a result, never an error: timeouts,
// DNS failures and refused connections all collapse to DOWN.
//
// A response that begins at all counts as LIVE regardless of status code;
// the body is an endless audio stream so it is never read, the connection
// is dropped as soon as the headers arrive.
func probeStream(streamURL string, timeout time.Duration) LivenessResult {
	if streamURL == "" {
		return LivenessResult{Status: StreamDown, CheckedAt: time.Now()}
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return LivenessResult{Status: StreamDown, CheckedAt: time.Now()}
	}
	// Icecast/Shoutcast servers answer a plain GET; HEAD support is spotty
	req.Header.Set("Icy-MetaData", "1")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return LivenessResult{Status: StreamDown, CheckedAt: time.Now()}
	}
	resp.Body.Close()

	return LivenessResult{Status: StreamLive, CheckedAt: time.Now()}
}
