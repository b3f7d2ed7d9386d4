// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. That makes it the backend of choice for local single-user runs
// and for the storage tests, which exercise the full contract against a
// real engine instead of a mock.
//
// Unlike the PostgreSQL backend, this one owns its schema: the students
// table is created on open, the way a single-file store is expected to
// bootstrap itself.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"

	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// compile-time check that SQLite satisfies the contract
var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at the path specified in the config,
// creates the students table if it does not already exist, and returns
// a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Database.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. The UNIQUE constraint on email is what turns a duplicate
	// insert into ErrDuplicateEmail further down.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			student_id      INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name      TEXT NOT NULL,
			last_name       TEXT NOT NULL,
			email           TEXT NOT NULL UNIQUE,
			enrollment_date DATE
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new row into the students table and returns the
// auto-generated student_id.
//
// SQLite has no RETURNING-with-Scan path through this driver, so the id
// comes from LastInsertId instead. The operation still runs in its own
// transaction with a deferred Rollback (a no-op after Commit), so every
// early return releases it.
func (s *SQLite) CreateStudent(firstName, lastName, email, enrollmentDate string) (int64, error) {
	// Parse up front so the column holds a real date value, not free
	// text. The menu has already validated the format; this guards the
	// storage contract itself.
	enrolled, err := storage.ParseDate(enrollmentDate)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: parse enrollment date: %w", err)
	}

	tx, err := s.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO students (first_name, last_name, email, enrollment_date)
		VALUES (?, ?, ?, ?)
	`, firstName, lastName, email, enrolled)
	if err != nil {
		return 0, mapError("CreateStudent", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("CreateStudent: commit: %w", err)
	}

	return id, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
//
// QueryRow returns exactly one row. If the query finds no match the error
// surfaces only when Scan is called — sql.ErrNoRows is the sentinel for
// "nothing matched" and maps to storage.ErrNotFound here.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	var (
		student  types.Student
		enrolled sql.NullTime
	)

	err := s.Db.QueryRow(`
		SELECT student_id, first_name, last_name, email, enrollment_date
		FROM students
		WHERE student_id = ?
	`, id).Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&enrolled,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	student.EnrollmentDate = storage.FormatDate(enrolled)
	return student, nil
}

// GetStudents returns all student rows as a slice, ordered by ascending id.
//
// Query (unlike QueryRow) returns *sql.Rows — a cursor over multiple rows.
// Always defer rows.Close() to release the database connection.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	rows, err := s.Db.Query(`
		SELECT student_id, first_name, last_name, email, enrollment_date
		FROM students
		ORDER BY student_id
	`)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice so an empty table is
	// distinguishable from a failed query.
	students := make([]types.Student, 0)

	for rows.Next() {
		var (
			student  types.Student
			enrolled sql.NullTime
		)

		if err := rows.Scan(
			&student.ID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&enrolled,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		student.EnrollmentDate = storage.FormatDate(enrolled)
		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentEmail sets only the email column of the matching row and
// reports the number of rows affected.
func (s *SQLite) UpdateStudentEmail(id int64, email string) (int64, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("UpdateStudentEmail: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE students SET email = ? WHERE student_id = ?`,
		email, id,
	)
	if err != nil {
		return 0, mapError("UpdateStudentEmail", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpdateStudentEmail: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("UpdateStudentEmail: commit: %w", err)
	}

	return affected, nil
}

// DeleteStudentByID removes a student row by primary key and reports the
// number of rows affected.
func (s *SQLite) DeleteStudentByID(id int64) (int64, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("DeleteStudentByID: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM students WHERE student_id = ?`, id)
	if err != nil {
		return 0, mapError("DeleteStudentByID", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("DeleteStudentByID: commit: %w", err)
	}

	return affected, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// mapError translates driver failures into the storage error kinds.
// SQLite reports a violated UNIQUE constraint with the extended code
// ErrConstraintUnique; email carries the only unique constraint in this
// schema, so that code maps to ErrDuplicateEmail.
func mapError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return storage.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}
