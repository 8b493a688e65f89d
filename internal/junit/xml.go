package junit

import (
	"bufio"
	"encoding/xml"
	"io"
)

// Header is written before the root element.
const Header = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

type xmlTestSuites struct {
	XMLName xml.Name       `xml:"testsuites"`
	Suites  []xmlTestSuite `xml:"testsuite"`
}

type xmlTestSuite struct {
	Name      string        `xml:"name,attr"`
	Errors    uint64        `xml:"errors,attr"`
	Failures  uint64        `xml:"failures,attr"`
	Tests     uint64        `xml:"tests,attr"`
	TestCases []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	Name    string      `xml:"name,attr"`
	Failure *xmlFailure `xml:"failure,omitempty"`
}

type xmlFailure struct {
	Message string `xml:"message,attr"`
}

// WriteError reports that the destination rejected the document. Any output
// written before the failure must be treated as corrupt.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return "write junit report: " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write renders suites as a single <testsuites> document and flushes it to w.
func Write(w io.Writer, suites []*TestSuite) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Header); err != nil {
		return &WriteError{Err: err}
	}

	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")
	if err := enc.Encode(toXML(suites)); err != nil {
		return &WriteError{Err: err}
	}
	if err := enc.Close(); err != nil {
		return &WriteError{Err: err}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return &WriteError{Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

func toXML(suites []*TestSuite) xmlTestSuites {
	doc := xmlTestSuites{Suites: make([]xmlTestSuite, 0, len(suites))}
	for _, s := range suites {
		xs := xmlTestSuite{
			Name:      s.Name,
			Errors:    s.Errors,
			Failures:  s.Failures,
			Tests:     s.Tests,
			TestCases: make([]xmlTestCase, 0, len(s.TestCases)),
		}
		for _, tc := range s.TestCases {
			xc := xmlTestCase{Name: tc.Name}
			if tc.Failure != nil {
				xc.Failure = &xmlFailure{Message: tc.Failure.Message}
			}
			xs.TestCases = append(xs.TestCases, xc)
		}
		doc.Suites = append(doc.Suites, xs)
	}
	return doc
}
