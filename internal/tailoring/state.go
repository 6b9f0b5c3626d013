package tailoring

// State is a step of the per-section tailoring state machine.
type State string

const (
	StateNotAttempted State = "NOT_ATTEMPTED"
	StateShot1Pending State = "SHOT1_PENDING"
	StateShot1Success State = "SHOT1_SUCCESS"
	StateShot1Noop    State = "SHOT1_NOOP"
	StateShot2Pending State = "SHOT2_PENDING"
	StateShot2Success State = "SHOT2_SUCCESS"
	StateShot2Failure State = "SHOT2_FAILURE"
	StateRuleFallback State = "RULE_FALLBACK"
	StateDone         State = "DONE"
)

// terminal reports whether the optimizer stops in this state.
func (s State) terminal() bool {
	return s == StateDone || s == StateRuleFallback
}
