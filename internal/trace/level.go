package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
	}
}

// ShouldEmit reports whether the level admits an event.
func (l Level) ShouldEmit(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Failure {
		return true
	}
	switch l {
	case LevelPhase:
		return ev.Scope <= ScopePhase
	case LevelDetail:
		return ev.Scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}

// admits is ShouldEmit for an event that has not been built yet.
func (l Level) admits(scope Scope) bool {
	return l.ShouldEmit(&Event{Scope: scope})
}
