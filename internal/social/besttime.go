package social

import (
	"sort"
	"time"
)

// bestHours holds the hours of day (UTC) with the highest historical
// engagement per platform.
var bestHours = map[Platform][]int{
	Twitter:   {9, 12, 15, 17, 20},
	Instagram: {11, 13, 17, 19},
	LinkedIn:  {7, 10, 12, 17},
	Facebook:  {9, 13, 15, 19},
}

// SpacingStrategy selects how SpacePosts distributes posts over time.
type SpacingStrategy string

// Spacing strategies.
const (
	// SpacingEven distributes posts evenly across the 9:00-20:00 window.
	SpacingEven SpacingStrategy = "even_spacing"
	// SpacingPeak cycles posts through peak engagement hours.
	SpacingPeak SpacingStrategy = "peak_times"
)

// DefaultSpacing is the gap used when no strategy applies.
const DefaultSpacing = 4 * time.Hour

// NextBestTime returns the next high-engagement posting time strictly
// after now, considering the union of best hours across the given
// platforms. With no recognized platform it returns the top of the next
// hour.
func NextBestTime(platforms []Platform, now time.Time) time.Time {
	now = now.UTC()

	hourSet := make(map[int]bool)
	for _, p := range platforms {
		for _, h := range bestHours[p] {
			hourSet[h] = true
		}
	}

	if len(hourSet) == 0 {
		return now.Truncate(time.Hour).Add(time.Hour)
	}

	hours := make([]int, 0, len(hourSet))
	for h := range hourSet {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	// Next slot later today, otherwise the first slot tomorrow.
	for _, h := range hours {
		if h > now.Hour() {
			return time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, time.UTC)
		}
	}
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), hours[0], 0, 0, 0, time.UTC)
}

// SpacePosts returns n posting times starting from now according to the
// given strategy. Slots already in the past roll over to the next day.
func SpacePosts(n int, now time.Time, strategy SpacingStrategy) []time.Time {
	if n <= 0 {
		return nil
	}
	now = now.UTC()

	switch strategy {
	case SpacingEven:
		// Divide the 9:00-20:00 posting window evenly.
		const startHour, endHour = 9, 20
		interval := float64(endHour-startHour) / float64(n)

		times := make([]time.Time, 0, n)
		for i := 0; i < n; i++ {
			hour := startHour + int(float64(i)*interval)
			t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
			if t.Before(now) {
				t = t.AddDate(0, 0, 1)
			}
			times = append(times, t)
		}
		return times

	case SpacingPeak:
		peaks := []int{9, 12, 17, 19}

		times := make([]time.Time, 0, n)
		for i := 0; i < n; i++ {
			hour := peaks[i%len(peaks)]
			t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
			if t.Before(now) {
				t = t.AddDate(0, 0, 1)
			}
			// Posts beyond one cycle move to later days.
			t = t.AddDate(0, 0, i/len(peaks))
			times = append(times, t)
		}
		return times

	default:
		times := make([]time.Time, 0, n)
		for i := 0; i < n; i++ {
			times = append(times, now.Add(time.Duration(i)*DefaultSpacing))
		}
		return times
	}
}
