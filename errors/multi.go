package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Append clubs together all non nil errors into a single error. It returns
// nil if there is no error to return. A single error is returned as it is.
//
// The resulting error matches every error it holds when tested with Is. Its
// ABCI code is the code of the first error, consistent with the fail-fast
// approach of the rest of the framework.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
		} else {
			flat = append(flat, e)
		}
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	points := make([]string, len(m.errs))
	for i, err := range m.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m.errs), strings.Join(points, "\n\t"))
}

// Cause returns the first error.
func (m *multiErr) Cause() error {
	return m.errs[0]
}

// Unpack returns all errors clubbed together.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// unpacker is implemented by errors that hold more than one error.
type unpacker interface {
	Unpack() []error
}

// Field returns an error instance that wraps the original error with
// additional information about the field it is created for. This is
// helpful when validating a structure with many attributes.
//
// If err is nil, this returns nil.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	if description != "" {
		return &fieldError{parent: Wrap(err, description), field: fieldName}
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &fieldError{parent: err, field: fieldName}
}

// AppendField is a shortcut function to club together error(s) with a given
// field error.
//
// Use Go naming for the field name. For example, UserName or MaxAge. When the
// error is for a nested field, use dot notation to construct the path. For
// example, User.Age or User.Name.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
}

func (err *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s", err.field, err.parent)
}

// Cause implements the causer interface.
func (err *fieldError) Cause() error {
	return err.parent
}

// Field returns the name of the field this error is created for.
func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors returns the list of all errors that are created for the given
// field name.
func FieldErrors(err error, fieldName string) []error {
	if errIsNil(err) {
		return nil
	}
	var res []error
	for {
		if f, ok := err.(*fieldError); ok && f.field == fieldName {
			return append(res, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				res = append(res, FieldErrors(e, fieldName)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			return res
		}
		err = c.Cause()
		if err == nil {
			return res
		}
	}
}
