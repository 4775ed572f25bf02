package models

// Outcome classifies a lookup for metrics and caching.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNoData        Outcome = "no_data"
	OutcomeNotRecognized Outcome = "not_recognized"
	OutcomeUnavailable   Outcome = "unavailable"
)

// Err maps an outcome to its sentinel. OK maps to nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeNoData:
		return ErrNoDataAvailable
	case OutcomeNotRecognized:
		return ErrCodeNotRecognized
	case OutcomeUnavailable:
		return ErrStoreUnavailable
	}
	return nil
}

// Payload is the ordered reply to one user query. Each block is sent as its
// own message.
type Payload struct {
	Blocks  []string `json:"blocks"`
	Outcome Outcome  `json:"outcome"`
}

// Text wraps a single block.
func Text(outcome Outcome, s string) Payload {
	return Payload{Blocks: []string{s}, Outcome: outcome}
}
