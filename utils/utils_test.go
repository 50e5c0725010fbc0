package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestGetenv(t *testing.T) {
	t.Setenv(EnvVarPrefix+"TEST_INT", "12")
	t.Setenv(EnvVarPrefix+"TEST_BAD", "twelve")

	test.That(t, GetenvInt(EnvVarPrefix+"TEST_INT", 3), test.ShouldEqual, 12)
	test.That(t, GetenvInt(EnvVarPrefix+"TEST_BAD", 3), test.ShouldEqual, 3)
	test.That(t, GetenvInt(EnvVarPrefix+"TEST_UNSET", 3), test.ShouldEqual, 3)
}

func TestErrors(t *testing.T) {
	test.That(t, NewOutOfRangeError("goal_bias", 2, 0, 1).Error(), test.ShouldEqual, "goal_bias must be in [0, 1], got 2")
}

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationFieldRequiredError("goal", "center")
	test.That(t, err.Error(), test.ShouldEqual, `error validating "goal": "center" is required`)
}
