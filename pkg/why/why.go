// Package why builds the canned structured explanation attached to every
// dispatched command. It is pure string assembly with no I/O; the value
// is that the shape is a fixed record rather than a free-form document,
// so the event log stays machine-readable.
package why

import (
	"fmt"
	"reflect"
)

// Rationale explains one executed action.
type Rationale struct {
	Intent    string `json:"intent"`
	Executor  string `json:"executor"`
	WhyAction string `json:"why_action"`
	WhyCode   string `json:"why_code"`
	Meta      string `json:"meta"`
}

// Structure describes the dispatcher that ran the action.
type Structure struct {
	Module       string `json:"module"`
	Fields       int    `json:"fields"`
	DesignReason string `json:"design_reason"`
}

// Analysis is the tagged record stored with each event: the command kind,
// its outcome, a run identifier, and the canned rationale and structure.
type Analysis struct {
	Command   string    `json:"command"`
	Outcome   string    `json:"outcome"`
	RunID     string    `json:"run_id"`
	Why       Rationale `json:"why"`
	Structure Structure `json:"structure"`
}

// Analyze produces the rationale for an action executed on behalf of an
// intent by the named module.
func Analyze(intent, module string) Rationale {
	return Rationale{
		Intent:    intent,
		Executor:  module,
		WhyAction: fmt.Sprintf("Action executed to satisfy '%s'.", intent),
		WhyCode:   "Modular separation prevents cascading failures.",
		Meta:      "System prioritizes traceability over autonomy illusion.",
	}
}

// Explain produces a structural description of an object. Go does not
// expose source lines at runtime, so the field count serves as the
// structural measure.
func Explain(obj interface{}) Structure {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s := Structure{
		Module:       "Dynamic",
		DesignReason: "Isolated responsibility for long-term safety.",
	}
	if t != nil {
		s.Module = t.Name()
		if t.Kind() == reflect.Struct {
			s.Fields = t.NumField()
		}
	}
	return s
}
