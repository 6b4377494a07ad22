package pipeline

// State is a run lifecycle phase.
type State string

const (
	StateInit      State = "INIT"
	StateOpenIO    State = "OPEN_IO"
	StateStreaming State = "STREAMING"
	StateFinalized State = "FINALIZED"
	StateFailed    State = "FAILED"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateFinalized || s == StateFailed
}

func (s State) String() string { return string(s) }
