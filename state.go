package hance

// State identifies one of the possible states processor can be in.
type State int32

const (
	// Idle means processor is created, but no samples were processed.
	Idle State = iota
	// Active means processor has received samples.
	Active
	// Draining means flush of the engine latency is in progress.
	Draining
	// Closed means processor doesn't accept samples anymore.
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	}
	return "unknown"
}

func (p *Processor) setState(s State) {
	if old := State(p.state.Swap(int32(s))); old != s {
		p.log.Debug(p.String() + " is " + s.String())
	}
}
