package registry

import "github.com/km-arc/go-spring/framework/component"

// Condition decides whether a candidate should be skipped entirely. Returning
// true means the candidate is deliberately not registered — a designed no-op,
// not an error. Conditions are typically driven by external configuration or
// environment state.
//
//	// Spring: ConditionEvaluator.shouldSkip
//	skipInTests := func(md component.Metadata) bool { return os.Getenv("APP_ENV") == "testing" }
type Condition func(md component.Metadata) bool

// None is the default condition: nothing is skipped.
func None(component.Metadata) bool { return false }
