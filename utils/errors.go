// Package utils contains error constructors and environment helpers shared by the planner packages.
package utils

import "github.com/pkg/errors"

// NewOutOfRangeError is used when a configured value falls outside of its allowed domain.
func NewOutOfRangeError(name string, value, lower, upper float64) error {
	return errors.Errorf("%s must be in [%v, %v], got %v", name, lower, upper, value)
}

// NewConfigValidationError returns an error specifying that there was an error while
// validating the config at the given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError returns an error specifying that a field is required
// while validating the config at the given path.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}
