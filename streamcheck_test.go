package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeNoURL(t *testing.T) {
	begin := time.Now()
	res := probeStream("", time.Second)
	assert.Equal(t, StreamDown, res.Status)
	assert.False(t, res.CheckedAt.IsZero())
	assert.Less(t, time.Since(begin), 100*time.Millisecond, "no network attempt expected")
}

func TestProbeLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := probeStream(srv.URL, time.Second)
	assert.Equal(t, StreamLive, res.Status)
}

func TestProbeLiveRegardlessOfStatusCode(t *testing.T) {
	// reachability policy: a response that begins at all counts as LIVE
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := probeStream(srv.URL, time.Second)
	assert.Equal(t, StreamLive, res.Status)
}

func TestProbeSendsIcyMetadataHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Icy-MetaData")
	}))
	defer srv.Close()

	probeStream(srv.URL, time.Second)
	assert.Equal(t, "1", got)
}

func TestProbeTimeoutOnHangingServer(t *testing.T) {
	// accepts the connection but never answers until the client gives up
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	begin := time.Now()
	res := probeStream(srv.URL, 150*time.Millisecond)
	elapsed := time.Since(begin)

	assert.Equal(t, StreamDown, res.Status)
	require.Less(t, elapsed, 2*time.Second, "probe must not outlive its timeout")
}

func TestProbeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := probeStream(url, time.Second)
	assert.Equal(t, StreamDown, res.Status)
}

func TestProbeRepeatedCallsDontLeak(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	for i := 0; i < 20; i++ {
		res := probeStream(srv.URL, time.Second)
		require.Equal(t, StreamLive, res.Status)
	}
}
