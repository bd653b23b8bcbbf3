package engine

// State is the orchestrator's position in the classification flow.
type State int

// Session states. Saved is terminal per result; selecting a new image
// starts the next cycle.
const (
	StateIdle State = iota
	StateImageSelected
	StateClassifying
	StateResultReady
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "image-selected"
	case StateClassifying:
		return "classifying"
	case StateResultReady:
		return "result-ready"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}
