package scenario

// Trace event kinds.
const (
	KindPass        = "pass"
	KindAssign      = "assign"
	KindNotify      = "notify"
	KindSubscribe   = "subscribe"
	KindUnsubscribe = "unsubscribe"
	KindEmit        = "emit"
	KindHandle      = "handle"
	KindError       = "error"
)

// Event is one entry of a run's trace.
type Event struct {
	Seq     int          `json:"seq"`
	Step    int          `json:"step"`
	Kind    string       `json:"kind"`
	Target  string       `json:"target,omitempty"`
	Key     string       `json:"key,omitempty"`
	Value   any          `json:"value,omitempty"`
	Changes []ChangeView `json:"changes,omitempty"`
	Outcome string       `json:"outcome,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ChangeView is the trace form of a binding.Change.
type ChangeView struct {
	Key      string `json:"key"`
	Previous any    `json:"previous"`
	Current  any    `json:"current"`
	First    bool   `json:"first"`
}

// recorder collects events in order and forwards them to an observer.
type recorder struct {
	step     int
	events   []Event
	observer func(Event)
}

func (r *recorder) add(e Event) {
	e.Seq = len(r.events) + 1
	e.Step = r.step
	r.events = append(r.events, e)
	if r.observer != nil {
		r.observer(e)
	}
}
