package pool

// State is the pool's initialization state.
type State uint8

const (
	// Uninitialized means no arena has been reserved yet.
	Uninitialized State = iota

	// Initializing means the arenas are being reserved.
	Initializing

	// Ready means every arena is reserved and the pool serves requests.
	Ready

	// Failed means a reservation failed. The state is permanent: every
	// operation is a no-op that returns Nil.
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
