package writer

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

// formatDate32 renders days-since-epoch as YYYY-MM-DD.
func formatDate32(v arrow.Date32) string {
	return v.ToTime().Format("2006-01-02")
}

// formatTime32Sec renders seconds-since-midnight as HH:MM:SS.
func formatTime32Sec(v arrow.Time32) string {
	secs := int32(v)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// formatTime64Micro renders microseconds-since-midnight as HH:MM:SS.ffffff.
func formatTime64Micro(v arrow.Time64) string {
	us := int64(v)
	secs := us / 1_000_000
	frac := us % 1_000_000
	return fmt.Sprintf("%02d:%02d:%02d.%06d", secs/3600, (secs/60)%60, secs%60, frac)
}

// formatTimestamp renders a timestamp value in unit since the Unix epoch as
// RFC 3339 in UTC, matching the resolution of unit.
func formatTimestamp(v arrow.Timestamp, unit arrow.TimeUnit) string {
	t := v.ToTime(unit).UTC()
	switch unit {
	case arrow.Second:
		return t.Format("2006-01-02T15:04:05Z")
	case arrow.Millisecond:
		return t.Format("2006-01-02T15:04:05.000Z")
	case arrow.Microsecond:
		return t.Format("2006-01-02T15:04:05.000000Z")
	default:
		return t.Format(time.RFC3339Nano)
	}
}
