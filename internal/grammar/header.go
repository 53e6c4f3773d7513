package grammar

import (
	"regexp"
	"strings"
)

var reWeekInfo = regexp.MustCompile(`Week\s+(\d+)\s+Ending:\s*(.+)`)

// Header is the report metadata found on the first page.
type Header struct {
	WeekNum    *int64
	WeekEnding *string
	Region     *string
}

// ParseHeader reads "Week <N> Ending: <label>" and the first line that is
// exactly one of the region markers. Missing pieces stay nil.
func ParseHeader(text string, regionMarkers []string) Header {
	var h Header
	if m := reWeekInfo.FindStringSubmatch(text); m != nil {
		h.WeekNum = ToInt(m[1])
		h.WeekEnding = optional(strings.TrimSpace(m[2]))
	}

lines:
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range regionMarkers {
			if line == marker {
				h.Region = ptr(marker)
				break lines
			}
		}
	}
	return h
}
