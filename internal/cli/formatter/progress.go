package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░] 2/5.
// Complete sites are green, started ones yellow, untouched ones dimmed.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total <= 0 {
		return fmt.Sprintf("[%s] %s", Dim(strings.Repeat(emptyBlock, width)), Dim("-"))
	}
	done = min(max(done, 0), total)

	filled := done * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	switch {
	case done == total:
		style = StyleGreen
	case done == 0:
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
