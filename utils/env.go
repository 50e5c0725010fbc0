package utils

import (
	"os"
	"strconv"

	"go.viam.com/optrrt/logging"
)

// EnvVarPrefix is the prefix for every environment variable read by the planner tools.
const EnvVarPrefix = "OPTRRT_"

// GetenvInt returns the integer value of the environment variable, or the default when it is unset
// or unparsable.
func GetenvInt(name string, defaultVal int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		logging.Global().Warnw("ignoring unparsable environment variable", "name", name, "value", raw)
		return defaultVal
	}
	return val
}
