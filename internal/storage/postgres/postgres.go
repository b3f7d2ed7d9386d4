// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Unlike the SQLite backend, this one does NOT create the students table:
// the schema — students(student_id, first_name, last_name, email UNIQUE,
// enrollment_date) — is owned by the database, and the tool only reads
// and writes it.
//
// Importing lib/pq registers the "postgres" driver with database/sql as a
// side effect; we also use the package directly to recognise
// unique-constraint violations by their SQLSTATE code.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique-constraint
// failure (class 23 — integrity constraint violation).
const uniqueViolation = "23505"

// Postgres is the concrete implementation of storage.Storage.
// It holds a *sql.DB, which is a connection pool managed by database/sql:
// each operation borrows a connection and the pool reclaims it on every
// exit path, which is the scoped-acquisition discipline this tool needs.
type Postgres struct {
	Db *sql.DB
}

// compile-time check that Postgres satisfies the contract
var _ storage.Storage = (*Postgres)(nil)

// New opens a pool against the database named in cfg and verifies it with
// a ping, so bad credentials fail at startup rather than on the first
// menu action.
func New(cfg *config.Config) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.SSLMode,
	)

	// sql.Open validates the DSN without dialling; the ping forces a
	// real connection.
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Postgres{Db: db}, nil
}

// CreateStudent inserts a new row and returns the generated student_id.
//
// PostgreSQL supports RETURNING, so the insert and the id retrieval are a
// single round-trip. The whole operation runs in its own transaction: the
// deferred Rollback releases it on every early return, and is a no-op
// once Commit has succeeded.
func (p *Postgres) CreateStudent(firstName, lastName, email, enrollmentDate string) (int64, error) {
	tx, err := p.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO students (first_name, last_name, email, enrollment_date)
		VALUES ($1, $2, $3, $4)
		RETURNING student_id
	`, firstName, lastName, email, enrollmentDate).Scan(&id)
	if err != nil {
		return 0, mapError("CreateStudent", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("CreateStudent: commit: %w", err)
	}

	return id, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (p *Postgres) GetStudentByID(id int64) (types.Student, error) {
	var (
		student  types.Student
		enrolled sql.NullTime
	)

	err := p.Db.QueryRow(`
		SELECT student_id, first_name, last_name, email, enrollment_date
		FROM students
		WHERE student_id = $1
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

// GetStudents returns all student rows ordered by ascending id.
func (p *Postgres) GetStudents() ([]types.Student, error) {
	rows, err := p.Db.Query(`
		SELECT student_id, first_name, last_name, email, enrollment_date
		FROM students
		ORDER BY student_id
	`)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice so "no students" and
	// "query failed" stay distinguishable for the caller.
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

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentEmail sets only the email column of the matching row and
// reports the number of rows affected.
func (p *Postgres) UpdateStudentEmail(id int64, email string) (int64, error) {
	tx, err := p.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("UpdateStudentEmail: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE students SET email = $1 WHERE student_id = $2`,
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
func (p *Postgres) DeleteStudentByID(id int64) (int64, error) {
	tx, err := p.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("DeleteStudentByID: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM students WHERE student_id = $1`, id)
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
func (p *Postgres) Close() error {
	return p.Db.Close()
}

// mapError translates driver failures into the storage error kinds.
// A unique-constraint violation becomes ErrDuplicateEmail — the email
// column carries the only unique constraint in this schema — and
// everything else is wrapped as a generic store error.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return storage.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}
