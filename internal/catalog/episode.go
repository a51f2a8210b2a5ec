package catalog

import "time"

// Episode is one deliverable unit in the catalog. Code is the canonical
// identifier derived from the raw upload title; MessageID locates the content
// in the upload channel.
type Episode struct {
	ID          int64
	Code        string
	SourceTitle string
	Season      *int
	Episode     *int
	Quality     string
	MessageID   int64
	CreatedAt   time.Time
}

// Label returns a short human-readable description for lists and announcements.
func (e *Episode) Label() string {
	if e == nil {
		return ""
	}
	if e.SourceTitle != "" {
		return e.SourceTitle
	}
	return e.Code
}
