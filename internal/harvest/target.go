package harvest

// Target tracks how many records the run still needs. The goal combines
// records already in the dataset at startup with records accepted this run;
// denial rows count toward neither.
type Target struct {
	goal     int
	existing int
	accepted int
}

// NewTarget builds a controller for the given goal and pre-existing count.
func NewTarget(goal, existing int) *Target {
	if goal < 0 {
		goal = 0
	}
	if existing < 0 {
		existing = 0
	}
	return &Target{goal: goal, existing: existing}
}

// Remaining returns how many more records are needed, never negative.
func (t *Target) Remaining() int {
	rest := t.goal - t.existing - t.accepted
	if rest < 0 {
		return 0
	}
	return rest
}

// Satisfied reports whether the goal has been reached.
func (t *Target) Satisfied() bool {
	return t.Remaining() == 0
}

// RecordAccepted folds n newly persisted records into the running total.
func (t *Target) RecordAccepted(n int) {
	if n > 0 {
		t.accepted += n
	}
}

// Goal returns the configured target count.
func (t *Target) Goal() int { return t.goal }

// Existing returns the count loaded from the dataset at startup.
func (t *Target) Existing() int { return t.existing }

// Accepted returns the count accepted during this run.
func (t *Target) Accepted() int { return t.accepted }

// Total returns existing plus accepted.
func (t *Target) Total() int { return t.existing + t.accepted }
