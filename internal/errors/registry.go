package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Binding Errors (B001-B019)
	// ============================================

	"B001": {
		Category:   CategoryBinding,
		Message:    "Input assignment failed",
		Suggestion: "Pass a value assignable to the target property, or implement SetInput",
	},
	"B002": {
		Category:   CategoryBinding,
		Message:    "Output handler is nil",
		Suggestion: "Remove the output from the map instead of passing a nil handler",
	},
	"B003": {
		Category:   CategoryBinding,
		Message:    "Output subscription failed",
		Suggestion: "Check that the target's output accepts subscriptions",
	},

	// ============================================
	// Lifecycle Errors (B020-B039)
	// ============================================

	"B020": {
		Category:   CategoryLifecycle,
		Message:    "Coordinator torn down",
		Suggestion: "Create a new coordinator for the new host instance",
	},

	// ============================================
	// Scenario Errors (S001-S019)
	// ============================================

	"S001": {
		Category:   CategoryScenario,
		Message:    "Invalid scenario",
		Suggestion: "Check the scenario YAML against the documented step format",
	},
	"S002": {
		Category: CategoryScenario,
		Message:  "Scenario expectation failed",
	},
	"S003": {
		Category:   CategoryScenario,
		Message:    "Scenario source unavailable",
		Suggestion: "Check the path or the s3://bucket/key location",
	},

	// ============================================
	// Config Errors (C001-C019)
	// ============================================

	"C001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check dynbind.json for syntax errors",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
