package event

// Kind identifies the type of process change event
type Kind string

const (
	// KindProcessStarted marks the first transition out of the initialised state
	KindProcessStarted Kind = "process.started"

	// KindProcessUpdated marks an ordinary state transition
	KindProcessUpdated Kind = "process.updated"

	// KindProcessClosed marks a terminal transition that did not complete the case
	KindProcessClosed Kind = "process.closed"

	// KindProcessCompleted marks the terminal success transition
	KindProcessCompleted Kind = "process.completed"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the kind is one of the defined constants
func (k Kind) IsValid() bool {
	switch k {
	case KindProcessStarted, KindProcessUpdated, KindProcessClosed, KindProcessCompleted:
		return true
	default:
		return false
	}
}

// Kinds returns every defined event kind
func Kinds() []Kind {
	return []Kind{KindProcessStarted, KindProcessUpdated, KindProcessClosed, KindProcessCompleted}
}
