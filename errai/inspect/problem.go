// Package inspect checks templated classes against their templates and
// models and reports every violation as a Problem.
package inspect

import (
	"fmt"
	"sort"

	"github.com/dhamidi/errai-ls/source"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code identifies the kind of a problem.
type Code int

const (
	TemplateNotFound Code = iota
	DefaultTemplateNotFound
	RootNodeNotFound
	DataFieldNotInTemplate
	DataFieldWrongType
	EventHandlerFieldUnresolved
	EventHandlerParameterCount
	EventHandlerParameterType
	EventHandlerSinkNativeOnGwtEvent
	EventHandlerMissingSinkNative
	EventHandlerNeedsNativeEvent
	AmbiguousModel
	BoundWithoutModel
	BoundPropertyNotFound
	BoundParentNotBindable
	ModelNotBindable
	BindabilityMismatch
)

var codeNames = map[Code]string{
	TemplateNotFound:                 "TemplateNotFound",
	DefaultTemplateNotFound:          "DefaultTemplateNotFound",
	RootNodeNotFound:                 "RootNodeNotFound",
	DataFieldNotInTemplate:           "DataFieldNotInTemplate",
	DataFieldWrongType:               "DataFieldWrongType",
	EventHandlerFieldUnresolved:      "EventHandlerFieldUnresolved",
	EventHandlerParameterCount:       "EventHandlerParameterCount",
	EventHandlerParameterType:        "EventHandlerParameterType",
	EventHandlerSinkNativeOnGwtEvent: "EventHandlerSinkNativeOnGwtEvent",
	EventHandlerMissingSinkNative:    "EventHandlerMissingSinkNative",
	EventHandlerNeedsNativeEvent:     "EventHandlerNeedsNativeEvent",
	AmbiguousModel:                   "AmbiguousModel",
	BoundWithoutModel:                "BoundWithoutModel",
	BoundPropertyNotFound:            "BoundPropertyNotFound",
	BoundParentNotBindable:           "BoundParentNotBindable",
	ModelNotBindable:                 "ModelNotBindable",
	BindabilityMismatch:              "BindabilityMismatch",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Problem is one violation. Span points at the annotation attribute value
// when there is one, otherwise at the annotation or declaration name. Fix
// describes the quick fix that applies, if any.
type Problem struct {
	File     string
	Span     source.Span
	Severity Severity
	Code     Code
	Message  string
	Fix      string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", p.File, p.Span.Start.Line+1, p.Span.Start.Column+1, p.Severity, p.Message, p.Code)
}

// Sort orders problems by file and position.
func Sort(problems []Problem) {
	sort.SliceStable(problems, func(i, j int) bool {
		a, b := problems[i], problems[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Span.Start.Before(b.Span.Start)
	})
}

// Unique drops repeated problems, keeping the first of each.
func Unique(problems []Problem) []Problem {
	seen := make(map[Problem]bool, len(problems))
	result := problems[:0]
	for _, p := range problems {
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}

// HasErrors reports whether any problem has error severity.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
