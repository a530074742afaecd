// this file defines the data structures used throughout
package main

import "time"

type Show struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	StartTime  string   `json:"start_time"` // wall clock, HH:MM:SS
	EndTime    string   `json:"end_time"`
	Days       []string `json:"days"` // day tags: sun mon tue wed thu fri sat
	Presenters []string `json:"presenters"`
}

type Presenter struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	ShowID   int64  `json:"show_id"`
	PhotoURL string `json:"photo_url"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	DeviceID  string    `json:"device_id"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentReport struct {
	ID         int64     `json:"id"`
	CommentID  int64     `json:"comment_id"`
	ReportedBy string    `json:"reported_by"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

type StreamStatus string

const (
	StreamLive StreamStatus = "LIVE"
	StreamDown StreamStatus = "DOWN"
)

type LivenessResult struct {
	Status    StreamStatus `json:"status"`
	CheckedAt time.Time    `json:"checkedAt"`
}
