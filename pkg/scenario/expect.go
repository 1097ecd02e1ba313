package scenario

import (
	"fmt"
	"reflect"
	"sort"
)

// checkExpectations returns one message per failed expectation.
func checkExpectations(s *Scenario, r *Result) []string {
	var failures []string
	fail := func(i int, format string, args ...any) {
		failures = append(failures, fmt.Sprintf("expect %d (%s): ", i, s.Expect[i].Type)+fmt.Sprintf(format, args...))
	}

	for i, e := range s.Expect {
		switch e.Type {
		case ExpectTraceCount:
			got := 0
			for _, ev := range r.Trace {
				if ev.Kind == e.Kind &&
					(e.Target == "" || ev.Target == e.Target) &&
					(e.Key == "" || ev.Key == e.Key) {
					got++
				}
			}
			if got != e.Count {
				fail(i, "%d %q events, want %d", got, e.Kind, e.Count)
			}

		case ExpectHandled:
			got := 0
			for _, ev := range r.Trace {
				if ev.Kind == KindHandle && ev.Key == e.Output {
					got++
				}
			}
			if got != e.Count {
				fail(i, "output %q handled %d times, want %d", e.Output, got, e.Count)
			}

		case ExpectFinalState:
			state := r.State[e.Target]
			keys := make([]string, 0, len(e.State))
			for k := range e.State {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				got, ok := state[k]
				if !ok {
					fail(i, "target %q has no input %q", e.Target, k)
					continue
				}
				if !reflect.DeepEqual(got, e.State[k]) {
					fail(i, "target %q input %q = %v, want %v", e.Target, k, got, e.State[k])
				}
			}

		case ExpectOutcome:
			if got := r.Outcomes[e.Step]; got != e.Outcome {
				fail(i, "step %d outcome %q, want %q", e.Step, got, e.Outcome)
			}

		case ExpectSubscribers:
			if got := r.Subscribers[e.Target][e.Output]; got != e.Count {
				fail(i, "target %q output %q has %d subscribers, want %d", e.Target, e.Output, got, e.Count)
			}
		}
	}
	return failures
}
