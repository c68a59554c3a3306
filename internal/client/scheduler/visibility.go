package scheduler

// Visibility reports foreground/background transitions of the surrounding
// app. True means visible.
type Visibility interface {
	Events() <-chan bool
}

// ManualVisibility is a Visibility driven by explicit Set calls: the CLI
// wires it to foreground/background commands, tests drive it directly.
// Clients start visible.
type ManualVisibility struct {
	ch chan bool
}

func NewManualVisibility() *ManualVisibility {
	return &ManualVisibility{ch: make(chan bool, 4)}
}

func (v *ManualVisibility) Events() <-chan bool { return v.ch }

// Set publishes a visibility transition. Drops the event rather than block
// when the consumer is gone.
func (v *ManualVisibility) Set(visible bool) {
	select {
	case v.ch <- visible:
	default:
	}
}
