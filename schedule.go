// this file implements the weekly schedule engine: turning a show's
// day tags + wall-clock window into concrete instants and deciding
// which show is on air right now
package main

import (
	"errors"
	"fmt"
	"time"
)

// errInvalidSchedule marks a show whose time-of-day values don't parse.
// Such shows are skipped during resolution, never fatal.
var errInvalidSchedule = errors.New("invalid schedule data")

// day tags as stored in the shows table, indexed by time.Weekday
var dayTags = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func dayTag(t time.Time) string {
	return dayTags[int(t.Weekday())]
}

func hasDay(days []string, tag string) bool {
	for _, d := range days {
		if d == tag {
			return true
		}
	}
	return false
}

// parseTimeOfDay parses "HH:MM:SS" (seconds optional) into clock fields.
func parseTimeOfDay(s string) (hour, min, sec int, err error) {
	n, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &min, &sec)
	if err != nil && n < 2 {
		return 0, 0, 0, fmt.Errorf("%w: bad time of day %q", errInvalidSchedule, s)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return 0, 0, 0, fmt.Errorf("%w: bad time of day %q", errInvalidSchedule, s)
	}
	return hour, min, sec, nil
}

// materializeShow anchors a show's wall-clock window to the civil date of
// ref in loc. A window whose end is not after its start wraps past midnight
// into the next civil day. start == end stays zero-width so the show never
// matches; creating a 24h window out of it would be guessing.
func materializeShow(s Show, ref time.Time, loc *time.Location) (start, end time.Time, err error) {
	sh, sm, ss, err := parseTimeOfDay(s.StartTime)
	if err != nil {
		return start, end, err
	}
	eh, em, es, err := parseTimeOfDay(s.EndTime)
	if err != nil {
		return start, end, err
	}

	ref = ref.In(loc)
	y, mo, d := ref.Date()
	start = time.Date(y, mo, d, sh, sm, ss, 0, loc)
	end = time.Date(y, mo, d, eh, em, es, 0, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// resolveActive picks the single show on air at now, or nil.
//
// Shows tagged with today's weekday are materialized on today's date. Shows
// tagged with yesterday's weekday are additionally materialized on
// yesterday's date, because a show that wrapped past midnight is still
// keyed to the day it started on (a Friday 22:00-02:00 show must resolve
// at Saturday 01:30).
//
// When windows overlap, the most recently started show wins; a start-time
// tie goes to the lowest ID so the result is stable regardless of catalog
// order. Shows with unparsable times are skipped.
func resolveActive(shows []Show, now time.Time, loc *time.Location) *Show {
	now = now.In(loc)
	today := dayTag(now)
	yesterday := dayTag(now.AddDate(0, 0, -1))

	var (
		active      *Show
		activeStart time.Time
	)

	consider := func(s *Show, ref time.Time) {
		start, end, err := materializeShow(*s, ref, loc)
		if err != nil {
			return
		}
		if !start.Before(end) {
			// zero-width window, never active
			return
		}
		if now.Before(start) || !now.Before(end) {
			return
		}
		switch {
		case active == nil,
			start.After(activeStart),
			start.Equal(activeStart) && s.ID < active.ID:
			active = s
			activeStart = start
		}
	}

	for i := range shows {
		if hasDay(shows[i].Days, today) {
			consider(&shows[i], now)
		}
		if hasDay(shows[i].Days, yesterday) {
			consider(&shows[i], now.AddDate(0, 0, -1))
		}
	}
	return active
}
