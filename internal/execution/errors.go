package execution

import (
	"errors"
	"fmt"
)

// ConfigurationError is returned when a test case cannot be registered.
// It is raised at registration time, before anything runs.
type ConfigurationError struct {
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: test %q: %s", e.Name, e.Reason)
}

// IsConfigurationError checks if the error is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return err != nil && errors.As(err, &cfgErr)
}
