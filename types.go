package archive

import (
	"time"
)

// Channel identifies which entry point produced a submission.
type Channel string

const (
	ChannelForm      Channel = "web_form"
	ChannelRecording Channel = "web_recording"
	ChannelUpload    Channel = "web_upload"
)

// Contributor is the optional person behind a submission. Every field may be
// empty independently.
type Contributor struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Submission is the immutable input to the submission pipeline. Handlers
// build one from raw form state and never mutate it afterwards.
type Submission struct {
	Category          string      `json:"category"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	BodyText          string      `json:"bodyText,omitempty"`
	OccurredOn        *time.Time  `json:"occurredOn,omitempty"`
	DateIsApproximate bool        `json:"dateIsApproximate,omitempty"`
	Contributor       Contributor `json:"contributor,omitempty"`
	Location          string      `json:"location,omitempty"`
	PeopleMentioned   []string    `json:"peopleMentioned,omitempty"`
	Channel           Channel     `json:"channel"`

	// DurationSeconds is only meaningful for the recording channel.
	DurationSeconds int `json:"durationSeconds,omitempty"`
}

// AssetUpload carries an optional binary payload alongside a submission.
type AssetUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Event is broadcast over the signal channel after a record is persisted.
type Event struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Channel     Channel   `json:"channel"`
	SubmittedAt time.Time `json:"submittedAt"`
}
