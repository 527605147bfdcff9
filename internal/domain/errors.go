package domain

import "fmt"

// ValidationError reports a missing or empty required argument.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("`%s` is a required field", e.Field)
}

type UnsupportedFunctionError struct {
	Name string
}

func (e *UnsupportedFunctionError) Error() string {
	return fmt.Sprintf("unsupported function: %s", e.Name)
}

type UnknownResourceTypeError struct {
	Type string
}

func (e *UnknownResourceTypeError) Error() string {
	return fmt.Sprintf("unknown resource type: %q", e.Type)
}

// ResourceNotFoundError means the identifier was well formed but the backend
// returned no record for it.
type ResourceNotFoundError struct {
	Type ResourceType
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s %q", e.Type, e.ID)
}

// IntegrationError wraps any failure talking to the device API.
type IntegrationError struct {
	Path    string
	Status  int
	Timeout bool
	Err     error
}

func (e *IntegrationError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("backend %s: timed out: %v", e.Path, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("backend %s: status %d: %v", e.Path, e.Status, e.Err)
	default:
		return fmt.Sprintf("backend %s: %v", e.Path, e.Err)
	}
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
