package session

// forwardTransitions contains the linear dialogue progression. Entry steps are
// handled separately in IsTransitionAllowed.
var forwardTransitions = map[Step][]Step{
	StepIdle:              {StepCollectingItems},
	StepCollectingItems:   {StepCollectingAddress},
	StepCollectingAddress: {StepCollectingPhone},
	StepCollectingPhone:   {StepCollectingNote},
	StepCollectingNote:    {StepConfirming},
	StepConfirming:        {StepIdle, StepCollectingItems},
}

// rewindTransitions covers the back button for steps whose predecessor is not
// already reachable from anywhere.
var rewindTransitions = map[Step]Step{
	StepCollectingNote: StepCollectingPhone,
}

// IsTransitionAllowed reports whether moving between two steps is valid.
// Three targets are reachable from any step: StepIdle (cancel), the dialogue
// entry StepCollectingItems (order trigger and the "confirm no" rewind), and
// StepCollectingAddress (cart checkout bypasses item collection by
// pre-populating the item description).
func IsTransitionAllowed(from, to Step) bool {
	if from == to {
		return true
	}

	switch to {
	case StepIdle, StepCollectingItems, StepCollectingAddress:
		return true
	}

	if rewindTransitions[from] == to {
		return true
	}

	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
