// Package scenario replays binding scenarios described in YAML.
//
// A scenario declares a set of targets and a list of steps. Each step may
// mount a target, change the inputs or outputs, run one host hook on a
// binding.Coordinator and emit output events. Running a scenario records
// an ordered trace of everything the coordinator did to the targets and
// checks the declared expectations against it.
//
//	name: rebind
//	targets:
//	  - name: a
//	    reactive: true
//	    outputs: [clicked]
//	steps:
//	  - mount: {target: a}
//	    inputs: {count: 1}
//	    outputs: [clicked]
//	  - emit: [{target: a, output: clicked, event: 1}]
//	expect:
//	  - type: handled
//	    output: clicked
//	    count: 1
package scenario
