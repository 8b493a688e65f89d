package junit

import (
	"errors"
	"fmt"
	"io"

	"github.com/AndreyAkinshin/suity/internal/events"
)

// ErrMultipleTestRuns is returned when an event stream holds more than one run.
// Library, doc and integration tests must be aggregated separately.
var ErrMultipleTestRuns = errors.New("event stream contains results for multiple runs")

// NewTestSuite folds the events of a single run into a TestSuite named name.
func NewTestSuite(evs []events.Event, name string) (*TestSuite, error) {
	suite := &TestSuite{Name: name}
	started := 0

	for _, ev := range evs {
		switch e := ev.(type) {
		case *events.Suite:
			switch e.Kind {
			case events.KindStarted:
				started++
				if started > 1 {
					return nil, ErrMultipleTestRuns
				}
				suite.Tests = e.TestCount
			case events.KindOk, events.KindFailed:
				suite.Failures = e.Counts.Failed
			case events.KindIgnored:
			}
		case *events.Test:
			switch e.Kind {
			case events.KindOk:
				suite.TestCases = append(suite.TestCases, TestCase{Name: e.Name})
			case events.KindFailed:
				suite.TestCases = append(suite.TestCases, TestCase{
					Name:    e.Name,
					Failure: &Failure{Message: e.Stdout},
				})
			case events.KindStarted, events.KindIgnored:
			}
		default:
			panic(fmt.Sprintf("junit: unhandled event type %T", ev))
		}
	}

	return suite, nil
}

// ReadTestSuite decodes one run's captured harness output from r and
// aggregates it in one step.
func ReadTestSuite(r io.Reader, name string) (*TestSuite, error) {
	evs, err := events.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewTestSuite(evs, name)
}
