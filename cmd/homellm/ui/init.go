package ui

import (
	"github.com/fatih/color"
)

// InitUI applies the --no-color setting.
func InitUI(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}
