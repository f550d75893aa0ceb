package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/semplan/internal/events"
	"github.com/dustin/go-humanize"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders a bar like [████░░░░] 45%.
func RenderBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", StylePurple.Render(bar), pct*100)
}

// ReloadProgress renders one progress event as a status line:
// the bar, the file's position in the manifest, its name and size.
func ReloadProgress(e events.ReloadProgress, width int) string {
	var pct float64
	if e.Total > 0 {
		pct = float64(e.Index) / float64(e.Total)
	}
	size := "size unknown"
	if e.Size > 0 {
		size = humanize.Bytes(uint64(e.Size))
	}
	return fmt.Sprintf("%s %2d/%d %s %s",
		RenderBar(pct, width), e.Index+1, e.Total, e.Path, Dim("("+size+")"))
}
