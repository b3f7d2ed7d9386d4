// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the menu, storage, and render packages can all import types without
// depending on each other.
package types

// Student represents one row of the students table.
//
// EnrollmentDate is carried as a string already formatted YYYY-MM-DD.
// An empty string means the column was NULL; the presentation layer
// renders that as a placeholder.
type Student struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	EnrollmentDate string
}

// NewStudentInput is the create form collected by the interactive menu.
//
// The validate:"..." tags are rules checked by the go-playground/validator
// package BEFORE any database access happens:
//
//   - "required"            — the field must be non-empty
//   - "datetime=2006-01-02" — the value must parse as a YYYY-MM-DD date
type NewStudentInput struct {
	FirstName      string `validate:"required"`
	LastName       string `validate:"required"`
	Email          string `validate:"required"`
	EnrollmentDate string `validate:"required,datetime=2006-01-02"`
}
