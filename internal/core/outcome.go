package core

// Outcome reports how a best-effort operation ended. Callers on the hot path
// inspect it instead of receiving errors.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeSkipped means there was nothing to do (unknown key, missing file).
	OutcomeSkipped
	// OutcomeFailed means the operation hit an error that was logged and swallowed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (o Outcome) OK() bool {
	return o == OutcomeOK
}

func (o Outcome) Failed() bool {
	return o == OutcomeFailed
}
