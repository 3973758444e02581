package edits

// Validation error codes, stable across the API.
const (
	// CodeTooMany is returned when more than four attachments are requested,
	// or when both media and a poll are requested. Media and polls are
	// mutually exclusive.
	CodeTooMany = "too_many"
	// CodeImagesAndVideo is returned when the resolved attachment set mixes
	// an audio or video asset with other attachments.
	CodeImagesAndVideo = "images_and_video"
	// CodeNotReady is returned when a requested attachment has not finished
	// processing.
	CodeNotReady = "not_ready"
)

// A ValidationError rejects an edit before any of it becomes visible. It is
// caller facing and carries a stable machine readable code.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeTooMany:
		return "validation failed: too many media attachments, or media and poll together"
	case CodeImagesAndVideo:
		return "validation failed: cannot mix audio or video with other attachments"
	case CodeNotReady:
		return "validation failed: media attachment is still being processed"
	default:
		return "validation failed: " + e.Code
	}
}

func validationError(code string) error {
	return &ValidationError{Code: code}
}
