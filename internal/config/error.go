package config

import "fmt"

// Error is a fatal configuration error. Path locates the offending field in
// the source document, dotted from the top level, e.g.
// "bench_config.weak.nnodes_max" or "model_config.lare.candidates[2].tag".
type Error struct {
	Path string
	Msg  string
	Err  error
}

// Errorf builds an Error for the given field path.
func Errorf(path, format string, args ...any) *Error {
	return &Error{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// WrapErr builds an Error for a field path around an underlying cause.
func WrapErr(path string, err error) *Error {
	return &Error{Path: path, Msg: err.Error(), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }
