package pixgen

import "fmt"

// ArgumentError reports a precondition violation, detected eagerly
// before any extraction or sampling work has been done.
type ArgumentError string

func (e ArgumentError) Error() string {
	return "pixgen: invalid argument - " + string(e)
}

type FormatError string

func (e FormatError) Error() string {
	return "pixgen: format error - " + string(e)
}

type UnsupportedError string

func (e UnsupportedError) Error() string {
	return "pixgen: unsupported action - " + string(e)
}

// ModelError reports a failure of the external conditional model during a
// raster-sampling run. The scan is aborted at the reported anchor; cells
// written before it keep their sampled values.
type ModelError struct {
	Row   int
	Col   int
	Frame int
	Err   error
}

func (e ModelError) Error() string {
	return fmt.Sprintf("pixgen: model failure at row %d, col %d, frame %d: %v", e.Row, e.Col, e.Frame, e.Err)
}

func (e ModelError) Unwrap() error {
	return e.Err
}
