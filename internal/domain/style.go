package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is a badge color pair.
type Style struct {
	Bg string `json:"bg"`
	Fg string `json:"fg"`
}

var DefaultStyle = Style{Bg: "var(--mantine-color-gray-6)", Fg: "#fff"}

// Normalize turns any status code or name into a lookup key: trimmed,
// upper-cased, with each whitespace run replaced by a single underscore.
// A nil value normalizes to the empty key.
func Normalize(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	return strings.Join(strings.Fields(strings.ToUpper(s)), "_")
}

// StyleTable maps normalized keys to styles, falling back to a default.
type StyleTable struct {
	styles   map[string]Style
	fallback Style
}

func NewStyleTable(styles map[string]Style, fallback Style) StyleTable {
	copied := make(map[string]Style, len(styles))
	for k, v := range styles {
		copied[Normalize(k)] = v
	}
	return StyleTable{styles: copied, fallback: fallback}
}

// Lookup never fails: unknown and empty keys yield the fallback style.
func (t StyleTable) Lookup(v any) Style {
	if style, ok := t.styles[Normalize(v)]; ok {
		return style
	}
	return t.fallback
}

var EventStatusStyles = NewStyleTable(map[string]Style{
	"SCHEDULED":   {Bg: "var(--mantine-color-blue-6)", Fg: "#fff"},
	"IN_PROGRESS": {Bg: "var(--mantine-color-yellow-5)", Fg: "#111"},
	"COMPLETED":   {Bg: "var(--mantine-color-green-6)", Fg: "#fff"},
	"CANCELLED":   {Bg: "var(--mantine-color-red-6)", Fg: "#fff"},
	"ON_HOLD":     {Bg: "var(--mantine-color-grape-6)", Fg: "#fff"},
	"DRAFT":       DefaultStyle,
	"TBD":         DefaultStyle,
}, DefaultStyle)

var AvailabilityStyles = NewStyleTable(map[string]Style{
	"AVAILABLE":   {Bg: "var(--mantine-color-green-6)", Fg: "#fff"},
	"UNAVAILABLE": {Bg: "var(--mantine-color-gray-6)", Fg: "#fff"},
	"MISSING":     {Bg: "var(--mantine-color-yellow-5)", Fg: "#111"},
	"BROKEN":      {Bg: "var(--mantine-color-red-6)", Fg: "#fff"},
}, DefaultStyle)

// EventStatusStyle accepts either an event status code or a status name.
func EventStatusStyle(v any) Style {
	var code EventStatus
	switch t := v.(type) {
	case EventStatus:
		code = t
	case int:
		code = EventStatus(t)
	default:
		return EventStatusStyles.Lookup(v)
	}
	if info, ok := EventStatuses.Info(code); ok {
		return EventStatusStyles.Lookup(info.Name)
	}
	return DefaultStyle
}

// Availability is the badge rendering of a stock availability value.
type Availability struct {
	Style
	Key   string `json:"key"`
	Label string `json:"label"`
}

// AvailabilityStyle styles a stock availability value. An empty value is
// reported as UNAVAILABLE; the label is fallbackLabel when given, otherwise
// the title-cased key.
func AvailabilityStyle(v any, fallbackLabel string) Availability {
	key := Normalize(v)
	style := AvailabilityStyles.Lookup(key)
	if key == "" {
		key = "UNAVAILABLE"
	}
	label := fallbackLabel
	if label == "" {
		label = formatKeyLabel(key)
	}
	return Availability{Style: style, Key: key, Label: label}
}

func formatKeyLabel(key string) string {
	words := strings.ReplaceAll(strings.ToLower(key), "_", " ")
	return cases.Title(language.English).String(words)
}
