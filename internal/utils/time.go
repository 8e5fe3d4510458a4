package util

import (
	"fmt"
	"time"

	"github.com/saulo-duarte/natije-api/internal/config"
)

var appLocation *time.Location

func init() {
	var err error
	appLocation, err = time.LoadLocation(config.Env("APP_TIMEZONE", "Asia/Almaty"))
	if err != nil {
		appLocation = time.FixedZone("ALMT", 5*60*60)
	}
}

func Location() *time.Location {
	return appLocation
}

// WeekBounds returns [Monday 00:00, next Monday 00:00) of the week containing
// now, in the application time zone.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	local := now.In(appLocation)
	offset := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, appLocation)
	return start, start.AddDate(0, 0, 7)
}

// FormatHHMM renders d as zero-padded hours and minutes. Seconds are truncated
// and hours are not wrapped at 24.
func FormatHHMM(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// FormatClock renders d as HH:MM:SS, the way lesson durations are shown.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	seconds := int64((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
