package engine

import "fmt"

// ErrorCode classifies a conversion failure.
type ErrorCode int

const (
	// OK means the pipeline ran to completion.
	OK ErrorCode = iota
	// InitError means a required collaborator was missing before
	// conversion started.
	InitError
	// ConversionError means the input violated the schema during
	// topology build or sampling: a section without exactly one center
	// lane, an arc length no geometry covers, or a duplicate id.
	ConversionError
	// IndexError means the spatial index rejected a request.
	IndexError
)

func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "ok"
	case InitError:
		return "init error"
	case ConversionError:
		return "conversion error"
	case IndexError:
		return "index error"
	}
	return fmt.Sprintf("error code %d", int(c))
}

// Status is the outcome of a conversion run: an error code plus the
// message of the first failure. The pipeline is fail-fast, so the first
// recorded error is carried unmodified to the caller.
type Status struct {
	Code ErrorCode
	Msg  string
}

// OK reports whether the run succeeded.
func (s Status) OK() bool { return s.Code == OK }

// Err returns nil for a successful status, otherwise an error wrapping
// the code and message.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	return fmt.Errorf("%s: %s", s.Code, s.Msg)
}
