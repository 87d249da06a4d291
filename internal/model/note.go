package model

import "time"

// DateLayout is the human-readable date stamped on a note when it is saved.
const DateLayout = "1/2/2006"

// Note is one saved pair of original and refined text.
// Notes are immutable once created; the JSON shape is the persisted layout.
type Note struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Original string `json:"original"`
	Refined  string `json:"refined"`
	Type     Mode   `json:"type"`
}

// FormatDate renders t the way note dates are stored.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
