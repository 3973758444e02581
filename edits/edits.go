// Package edits implements in-place editing of statuses.
//
// An edit applies several interdependent mutations in one transaction:
// reconciling the attachment set, creating, rewriting or removing the
// attached poll, updating the scalar attributes, and recording the edit
// history. The pre-edit state is captured exactly once, lazily, the first
// time a status is edited. After the transaction commits the editor kicks
// off the side effects: poll expiration rescheduling, preview card reset,
// tag and mention reprocessing, and broadcast of the update.
package edits

import (
	"context"
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
)

// UpdateRequest carries the caller's requested changes to a status.
type UpdateRequest struct {
	// Text is the new text body. If empty, the spoiler text is used, and
	// failing that the body becomes empty.
	Text        string
	SpoilerText string
	// Sensitive marks the status as sensitive. A non-empty spoiler text
	// implies sensitive regardless of this flag.
	Sensitive bool
	// Language is a locale tag. If it is absent or not recognised the
	// status' language is left unchanged.
	Language string
	// MediaIDs is the requested attachment set, in order. Only the first
	// four are considered. Empty means "leave the attachments alone".
	MediaIDs []snowflake.ID
	// Poll is the requested poll, or nil to remove any existing poll.
	Poll *PollRequest
}

// PollRequest describes the requested shape of the status' poll.
type PollRequest struct {
	// Options is the ordered list of option labels. If it differs from the
	// stored options all existing votes are discarded.
	Options    []string
	ExpiresIn  time.Duration
	Multiple   bool
	HideTotals bool
}

// PollExpirationScheduler schedules the delayed task that notifies poll
// participants when the poll closes. Implementations must be durable; the
// editor fires and forgets.
type PollExpirationScheduler interface {
	// ScheduleAt schedules a poll expiration notification for the given time.
	// Scheduling the same poll twice is not an error.
	ScheduleAt(ctx context.Context, pollID snowflake.ID, at time.Time) error
	// Cancel removes a previously scheduled notification for the poll.
	Cancel(ctx context.Context, pollID snowflake.ID) error
}

// maxAttachments is the most media attachments a status may carry.
const maxAttachments = 4

// pollNotificationGrace is how long after a poll expires its notification
// fires.
const pollNotificationGrace = 5 * time.Minute
