package session

import "time"

// Status represents the lifecycle of a recorded session.
type Status string

const (
	StatusRecorded     Status = "recorded"
	StatusTranscribing Status = "transcribing"
	StatusBuilt        Status = "built"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusRecorded,
	StatusTranscribing,
	StatusBuilt,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether the value is a known lifecycle status.
func ValidStatus(status Status) bool {
	_, ok := statusSet[status]
	return ok
}

// Session is one recorded session persisted in SQLite.
type Session struct {
	ID              string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DurationMS      int64
	ChunkCount      int
	ScreenshotCount int
	Language        string
	LecturePath     string
	ErrorMessage    string
}
