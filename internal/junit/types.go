// Package junit aggregates decoded test-harness events into suite reports
// and renders them as JUnit XML.
package junit

// Failure indicates that the test failed an explicit check (an assertion or a panic).
type Failure struct {
	// Message is the captured output, stored verbatim.
	Message string
}

// TestCase is the outcome of one test.
type TestCase struct {
	Name    string
	Failure *Failure // nil if the test passed
}

// Failed reports whether the test case failed.
func (tc TestCase) Failed() bool {
	return tc.Failure != nil
}

// TestSuite is the report of a single test run.
type TestSuite struct {
	Name string
	// Errors is always zero: the harness cannot tell infrastructure errors
	// apart from assertion failures.
	Errors    uint64
	Failures  uint64
	Tests     uint64
	TestCases []TestCase
}

// Empty reports whether the run had no applicable tests.
func (s *TestSuite) Empty() bool {
	return s.Tests == 0
}

// Passed returns the number of test cases without a failure.
func (s *TestSuite) Passed() int {
	n := 0
	for _, tc := range s.TestCases {
		if !tc.Failed() {
			n++
		}
	}
	return n
}
