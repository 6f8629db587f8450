package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Stream ────────────────────────────────────────────────────────
	ErrStreamNotConnected ErrCode = "STREAM_NOT_CONNECTED"
	ErrStreamUnreachable  ErrCode = "STREAM_UNREACHABLE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrStreamNotConnected:
		return "The exam stream is not connected; the answer was not sent."
	case ErrStreamUnreachable:
		return "The exam stream is unreachable. Leave and re-enter the view to retry."
	case ErrInternal:
		return "An internal error occurred."
	default:
		return "Unknown error."
	}
}
