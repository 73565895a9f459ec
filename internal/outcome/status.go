package outcome

import "fmt"

// Status is the reported outcome of a single test invocation
type Status int

const (
	// Unset means the body has not reported anything yet
	Unset Status = iota
	Pass
	Fail
	Skip
	Abort
)

var statusNames = map[Status]string{
	Unset: "unset",
	Pass:  "pass",
	Fail:  "fail",
	Skip:  "skip",
	Abort: "abort",
}

// String returns the lower-case name of the status
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Label returns the short upper-case tag used in reports
func (s Status) Label() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Abort:
		return "ABORT"
	default:
		return "UNSET"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(text))
}
