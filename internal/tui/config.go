package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"
)

var NormalColor = tcell.ColorWhite

// Color tag names for per-line diff coloring.
var (
	additionTag  = "green"
	deletionTag  = "red"
	hunkTag      = "blue"
	separatorTag = "yellow"
)

var icons = defaultIconsMap()

func defaultIconsMap() map[string]string {
	return map[string]string{
		"Mergeable": "✓",
		"Blocked":   "✗",
		"CheckPass": "✓",
		"CheckFail": "✗",
		"Reviewer":  "•",
		"Approved":  "✓",
		"MoreAbove": "↑",
		"MoreBelow": "↓",
	}
}

func initIconsMap(config *viper.Viper) map[string]string {
	iconsMap := defaultIconsMap()

	if config.GetBool("general.useNerdFontIcons") {
		nerdIconsMap := map[string]string{
			"Mergeable": "󰱒",
			"Blocked":   "",
			"CheckPass": "󰱒",
			"CheckFail": "",
			"Approved":  "󰱒",
		}

		for k := range nerdIconsMap {
			iconsMap[k] = nerdIconsMap[k]
		}
	}

	for k := range iconsMap {
		p := fmt.Sprintf("icons.%s", k)
		if icon := config.GetString(p); icon != "" {
			iconsMap[k] = icon
		}
	}

	return iconsMap
}

func notificationColor(level NotificationLevel) tcell.Color {
	switch level {
	case NotificationError:
		return tcell.ColorRed
	case NotificationWarning:
		return tcell.ColorYellow
	default:
		return tcell.ColorGreen
	}
}
