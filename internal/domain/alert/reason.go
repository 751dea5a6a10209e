package alert

// Reason is the structured cause of a status change.
type Reason int

const (
	// ReasonNone means no blackout transition; it is also used for history
	// entries whose text is not recognised.
	ReasonNone Reason = iota
	// ReasonMutedByBlackout is recorded when a blackout window mutes an alert.
	ReasonMutedByBlackout
	// ReasonReopenedByBlackout is recorded when an alert leaves a blackout window.
	ReasonReopenedByBlackout
)

// Reason texts are consumed verbatim by operator tooling.
const (
	textMutedByBlackout    = "muted by blackout plugin"
	textReopenedByBlackout = "reopened by blackout plugin"
)

// String returns the audit text stored alongside the status change.
func (r Reason) String() string {
	switch r {
	case ReasonMutedByBlackout:
		return textMutedByBlackout
	case ReasonReopenedByBlackout:
		return textReopenedByBlackout
	default:
		return ""
	}
}

// ParseReason maps a stored audit text back to its Reason.
func ParseReason(text string) Reason {
	switch text {
	case textMutedByBlackout:
		return ReasonMutedByBlackout
	case textReopenedByBlackout:
		return ReasonReopenedByBlackout
	default:
		return ReasonNone
	}
}
