// Package validator provides rule-based request validation with
// field-keyed errors, so HTTP handlers can reject malformed input with
// per-field messages before any side effect runs.
//
// Usage:
//
//	err := validator.Apply(
//		validator.Required("title", req.Title),
//		validator.MaxLen("message", req.Message, 1600),
//	)
package validator
