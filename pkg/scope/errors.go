package scope

// ConfigurationError is returned when a consumer is evaluated without a
// reachable registry.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConfigurationError) Hint() string {
	return "Create a registry for the document and pass its scope to every element that needs an id."
}

func errNoRegistry() error {
	return &ConfigurationError{Message: "no element id registry is reachable from this element"}
}
