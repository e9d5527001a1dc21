package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// SuccessABCICode is the code of a response that carries no error.
const SuccessABCICode = 0

// Errors without a registered root share code 1 and a fixed message, so
// node internals never reach a client.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo maps err to the code and log of an ABCI response. In debug mode
// the log is the full formatted error, stack trace included, even for
// internal errors.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// Redact hides every error that has no registered root, and every panic,
// behind a generic internal error. Debug mode returns err unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

type coder interface {
	ABCICode() uint32
}

// abciCode walks the cause chain of err down to the first layer that
// declares a code.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

// errIsNil also catches typed nil pointers stored in an error interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
