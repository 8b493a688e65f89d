// Package events models the JSON event stream emitted by the Rust test harness
// (libtest with --format=json) and decodes it line by line.
package events

import "fmt"

// Kind is the lifecycle tag carried by every event.
type Kind string

const (
	KindStarted Kind = "started"
	KindOk      Kind = "ok"
	KindFailed  Kind = "failed"
	KindIgnored Kind = "ignored"
)

// Valid reports whether k is one of the known lifecycle tags.
func (k Kind) Valid() bool {
	switch k {
	case KindStarted, KindOk, KindFailed, KindIgnored:
		return true
	}
	return false
}

// Event is one decoded line of the stream. It is implemented by *Suite and *Test only.
type Event interface {
	EventKind() Kind
	isEvent()
}

// Counts are the totals reported by a terminal suite event.
type Counts struct {
	Passed      uint64
	Failed      uint64
	AllowedFail uint64
	Ignored     uint64
	Measured    uint64
	FilteredOut uint64
}

// Suite is a suite-level lifecycle event.
//
// TestCount is meaningful only for KindStarted, Counts only for KindOk and
// KindFailed. The decoder rejects lines that omit the fields their tag requires.
type Suite struct {
	Kind      Kind
	TestCount uint64
	Counts    Counts
}

// EventKind returns the lifecycle tag.
func (s *Suite) EventKind() Kind { return s.Kind }

func (*Suite) isEvent() {}

func (s *Suite) String() string {
	switch s.Kind {
	case KindStarted:
		return fmt.Sprintf("suite started (%d tests)", s.TestCount)
	case KindOk, KindFailed:
		return fmt.Sprintf("suite %s (%d passed, %d failed)", s.Kind, s.Counts.Passed, s.Counts.Failed)
	default:
		return fmt.Sprintf("suite %s", s.Kind)
	}
}

// Test is a test-level lifecycle event.
type Test struct {
	Kind Kind
	Name string
	// Stdout is the captured output. The harness always sends it for failed tests.
	Stdout string
}

// EventKind returns the lifecycle tag.
func (t *Test) EventKind() Kind { return t.Kind }

func (*Test) isEvent() {}

func (t *Test) String() string {
	return fmt.Sprintf("test %s %s", t.Name, t.Kind)
}
