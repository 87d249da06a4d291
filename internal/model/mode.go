package model

import (
	"errors"
	"strings"
)

// Mode is the documentation style applied during refinement.
type Mode string

const (
	ModeTechSupport    Mode = "tech_support"
	ModeEmail          Mode = "email"
	ModeMeetingMinutes Mode = "meeting_minutes"
	ModeKBArticle      Mode = "kb_article"
)

// DefaultMode is selected when a caller does not pick one.
const DefaultMode = ModeTechSupport

var ErrInvalidMode = errors.New("invalid mode")

var modeLabels = map[Mode]string{
	ModeTechSupport:    "IT Ticket Log",
	ModeEmail:          "Professional Email",
	ModeMeetingMinutes: "Meeting Minutes",
	ModeKBArticle:      "Knowledge Base Article",
}

// Modes returns every supported mode in display order.
func Modes() []Mode {
	return []Mode{ModeTechSupport, ModeEmail, ModeMeetingMinutes, ModeKBArticle}
}

// ParseMode validates s. Surrounding whitespace is ignored; case is not.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.TrimSpace(s))
	if _, ok := modeLabels[m]; !ok {
		return "", ErrInvalidMode
	}
	return m, nil
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	_, ok := modeLabels[m]
	return ok
}

// Label is the display name shown next to the mode selector.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}
