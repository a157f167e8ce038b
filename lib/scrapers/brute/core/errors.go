package core

import "fmt"

// AuthError covers a missing, malformed or expired session credential.
type AuthError struct {
	Reason string
}

func (e AuthError) Error() string {
	return fmt.Sprintf("auth: %s", e.Reason)
}

// FormatError means a scraped page did not match the expected shape,
// Missing names the link, field or marker that was absent.
type FormatError struct {
	Missing string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("unexpected page format: missing %s", e.Missing)
}

// ValidationError means a caller-supplied value violates a domain
// constraint.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid value: %s", e.Reason)
}

// NotFoundError means a requested named entity was absent after a full
// scan of the page.
type NotFoundError struct {
	Kind string
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// IOError wraps an archive download or extraction failure.
type IOError struct {
	Op  string
	Err error
}

func (e IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e IOError) Unwrap() error {
	return e.Err
}
