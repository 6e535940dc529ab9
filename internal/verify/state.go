package verify

// State represents a stage of a verification run. A run moves forward
// through the states in order; a recoverable form-check failure does not
// interrupt the progression.
type State int

const (
	StateIdle State = iota
	StateRasterizingEvidence
	StateRasterizingTarget
	StateRunningFormCheck
	StateRunningCrossCheck
	StateMerging
	StateDone
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateRasterizingEvidence: "rasterizing_evidence",
	StateRasterizingTarget:   "rasterizing_target",
	StateRunningFormCheck:    "running_form_check",
	StateRunningCrossCheck:   "running_cross_check",
	StateMerging:             "merging",
	StateDone:                "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
