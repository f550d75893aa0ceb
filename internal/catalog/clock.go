package catalog

import (
	"fmt"
	"strconv"
)

// SplitHHMM splits an HHMM integer into hour and minute.
func SplitHHMM(hhmm int) (hour, minute int) {
	return hhmm / 100, hhmm % 100
}

// FormatHHMM renders an HHMM integer as "HH:MM".
func FormatHHMM(hhmm int) string {
	h, m := SplitHHMM(hhmm)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Minutes converts an HHMM integer to minutes since midnight.
func Minutes(hhmm int) int {
	h, m := SplitHHMM(hhmm)
	return h*60 + m
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
