package entities

import "time"

// JobState is a state of the download state machine
type JobState string

const (
	StateRateChecked JobState = "rate_checked"
	StateSelecting   JobState = "selecting"
	StateSizeChecked JobState = "size_checked"
	StateDownloading JobState = "downloading"
	StateDelivered   JobState = "delivered"
	// StateRejected ends a job whose request violated a policy; the placeholder shows the reason
	StateRejected JobState = "rejected"
	// StateFailed ends a job handed over to the recovery chain
	StateFailed JobState = "failed"
)

// DownloadJob is the unit of work started when a user picks the placeholder
type DownloadJob struct {
	SourceURL string
	// PlaceholderRef is the inline message id of the placeholder
	PlaceholderRef string
	UserID         int64
	Selection      *SelectionResult
	StartedAt      time.Time
}

// JobOutcome reports how a job terminated
type JobOutcome struct {
	State JobState
	// Trace lists every state the job entered, in order
	Trace []JobState
	Err   error
}
