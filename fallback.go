// this file holds the static fallback catalog used when the store is
// unreachable, and the fallback player state
package main

import "sync"

// fallbackShows is served whenever the shows table cannot be read, so the
// app always has a schedule to display.
var fallbackShows = []Show{
	{
		ID:         1,
		Title:      "Kipindi Maalumu",
		StartTime:  "06:00:00",
		EndTime:    "10:00:00",
		Days:       []string{"mon", "tue", "wed", "thu", "fri", "sat"},
		Presenters: []string{"Default Presenter"},
	},
	{
		ID:         2,
		Title:      "Kipindi Maalumu",
		StartTime:  "10:00:00",
		EndTime:    "13:00:00",
		Days:       []string{"mon", "tue", "wed", "thu", "fri"},
		Presenters: []string{"Default Presenter"},
	},
}

// FallbackPlayer tracks the backup stream the station switches to when the
// main stream is down. It only keeps state; actual playout happens in the
// station's audio chain.
type FallbackPlayer struct {
	mu        sync.Mutex
	streamURL string
	playing   bool
}

type FallbackState struct {
	Stream    string `json:"stream"`
	IsPlaying bool   `json:"isPlaying"`
}

func (f *FallbackPlayer) SetStream(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamURL = url
}

func (f *FallbackPlayer) Play() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
}

func (f *FallbackPlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

func (f *FallbackPlayer) State() FallbackState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FallbackState{Stream: f.streamURL, IsPlaying: f.playing}
}
