// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application — and the
// closed set of error kinds callers are allowed to branch on.
//
// WHY AN INTERFACE?
// ─────────────────
// The interactive menu should not know or care which database it is
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new engine,
//     change one line in main.go. Zero menu changes.
//
//   - Writing tests = pass a fake that satisfies the interface.
//     No real database needed for menu tests.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-manager/internal/types"
)

// The error kinds below form a closed set. Backends translate
// driver-specific failures into these sentinels; anything else is wrapped
// and treated as a generic store error. Callers branch with errors.Is —
// never on a driver's concrete error type.
var (
	// ErrNotFound means no student row matched the requested id.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateEmail means the store rejected a write because the
	// uniqueness constraint on the email column was violated.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateStudent inserts a new student row and returns the store-
	// generated id. Returns ErrDuplicateEmail if the email is taken.
	CreateStudent(firstName, lastName, email, enrollmentDate string) (int64, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound if no row matches.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student ordered by ascending id.
	// Returns an empty slice (not nil) when the table is empty.
	GetStudents() ([]types.Student, error)

	// UpdateStudentEmail sets the email of the student with the given id
	// and reports how many rows were affected. Zero rows means the row
	// vanished between lookup and write; that is the caller's "no changes
	// made" outcome, not an error. Returns ErrDuplicateEmail if the new
	// email is taken.
	UpdateStudentEmail(id int64, email string) (int64, error)

	// DeleteStudentByID removes a student row and reports how many rows
	// were affected.
	DeleteStudentByID(id int64) (int64, error)

	// Close releases the underlying connection pool.
	Close() error
}
