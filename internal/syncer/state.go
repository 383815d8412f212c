package syncer

// State is the position of the syncer in its cycle.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StatePersisting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StatePersisting:
		return "persisting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
