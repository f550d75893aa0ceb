package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatCredits renders a credit-hour range, collapsing equal bounds:
// "3", "1-4", "1.5".
func FormatCredits(r [2]float64) string {
	lo := strconv.FormatFloat(r[0], 'f', -1, 64)
	if r[0] == r[1] {
		return lo
	}
	return lo + "-" + strconv.FormatFloat(r[1], 'f', -1, 64)
}

// FormatSeats renders enrolled/max, or just the enrollment when the maximum
// is unknown.
func FormatSeats(s catalog.Seats) string {
	if s.Max <= 0 {
		return strconv.Itoa(s.Enrolled)
	}
	return fmt.Sprintf("%d/%d", s.Enrolled, s.Max)
}

// FormatMeetings renders each slot as "MWF 09:00-09:50" joined by "; ".
// Sections without slots render as "TBA".
func FormatMeetings(slots []catalog.Slot) string {
	if len(slots) == 0 {
		return Dim("TBA")
	}
	parts := make([]string, len(slots))
	for i, sl := range slots {
		parts[i] = sl.Days + " " + sl.Span()
	}
	return strings.Join(parts, "; ")
}

// FormatRooms renders each slot's location and room, deduplicated.
func FormatRooms(slots []catalog.Slot) string {
	seen := map[string]bool{}
	var parts []string
	for _, sl := range slots {
		room := strings.TrimSpace(sl.Location.Code() + " " + sl.Room)
		if room == "" || seen[room] {
			continue
		}
		seen[room] = true
		parts = append(parts, room)
	}
	return strings.Join(parts, ", ")
}

// CatalogTime converts a catalog timestamp in epoch milliseconds.
func CatalogTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FormatCatalogTime renders a catalog timestamp, or "unknown" for zero.
func FormatCatalogTime(ms int64) string {
	if ms <= 0 {
		return "unknown"
	}
	return CatalogTime(ms).Format("Jan 2, 2006 15:04 MST")
}

// Plural returns "1 section" or "3 sections".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
