// Package menu implements the interactive driver: a loop that reads a
// numbered choice from standard input and dispatches to one of the record
// operations (list, add, update email, delete, exit).
//
// DEPENDENCY INJECTION:
// ─────────────────────
// The Menu holds its reader, writer, storage, and logger as fields set by
// New. It never touches os.Stdin or os.Stdout directly, so a test can
// script a whole session with strings.NewReader and a bytes.Buffer and
// swap the real database for a fake that satisfies storage.Storage.
//
// Every operation follows the same flow the rest of the codebase uses:
// validate locally first (no store access on bad input), then call the
// Storage interface, then branch on the closed error-kind set and report.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
	"github.com/aanand-mishra/student-manager/internal/utils/render"

	"github.com/go-playground/validator/v10"
)

// Menu drives one interactive session.
type Menu struct {
	in       *bufio.Scanner
	out      io.Writer
	storage  storage.Storage
	log      *slog.Logger
	validate *validator.Validate
}

// New returns a Menu reading choices from in and reporting to out.
func New(in io.Reader, out io.Writer, storage storage.Storage, log *slog.Logger) *Menu {
	return &Menu{
		in:       bufio.NewScanner(in),
		out:      out,
		storage:  storage,
		log:      log,
		validate: validator.New(),
	}
}

// Run loops until the user selects Exit or the input stream ends.
// Each iteration fully completes one operation before the next prompt —
// strictly sequential, nothing in flight between iterations.
func (m *Menu) Run() {
	fmt.Fprintln(m.out, "\nWelcome to the Student Management System!")

	for {
		m.printMenu()

		choice, ok := m.prompt("\nEnter your choice (1-5): ")
		if !ok {
			return // stdin closed
		}

		switch choice {
		case "1":
			m.listStudents()
		case "2":
			m.addStudent()
		case "3":
			m.updateStudentEmail()
		case "4":
			m.deleteStudent()
		case "5":
			fmt.Fprintln(m.out, "\nThank you for using the Student Management System. Goodbye!")
			return
		default:
			render.Errorf(m.out, "Invalid choice. Please enter a number between 1 and 5.")
		}
	}
}

func (m *Menu) printMenu() {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(m.out, "\n"+line)
	fmt.Fprintln(m.out, "STUDENT MANAGEMENT SYSTEM")
	fmt.Fprintln(m.out, line)
	fmt.Fprintln(m.out, "1. View all students")
	fmt.Fprintln(m.out, "2. Add a new student")
	fmt.Fprintln(m.out, "3. Update student email")
	fmt.Fprintln(m.out, "4. Delete a student")
	fmt.Fprintln(m.out, "5. Exit")
	fmt.Fprintln(m.out, line)
}

// prompt prints the label and reads one trimmed line.
// ok is false when the input stream is exhausted.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptID reads a student id and parses it. A non-numeric value is a
// local validation failure: it is reported here and the caller returns to
// the menu without any store access.
func (m *Menu) promptID(label string) (int64, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		render.Errorf(m.out, "Error: Student ID must be a number.")
		return 0, false
	}

	return id, true
}

// listStudents prints every record ordered by ascending id, or a notice
// when the table is empty.
func (m *Menu) listStudents() {
	m.log.Info("listing students")

	students, err := m.storage.GetStudents()
	if err != nil {
		m.log.Error("error listing students", slog.String("error", err.Error()))
		render.Errorf(m.out, "Error retrieving students.")
		return
	}

	if len(students) == 0 {
		fmt.Fprintln(m.out, "\nNo students found in the database.")
		return
	}

	fmt.Fprintln(m.out)
	render.StudentTable(m.out, students)
}

// addStudent collects the create form, validates it locally, and inserts
// the record. A duplicate email is reported distinctly; any other store
// failure is reported generically and logged with detail.
func (m *Menu) addStudent() {
	fmt.Fprintln(m.out, "\n--- Add New Student ---")

	var (
		input types.NewStudentInput
		ok    bool
	)
	if input.FirstName, ok = m.prompt("Enter first name: "); !ok {
		return
	}
	if input.LastName, ok = m.prompt("Enter last name: "); !ok {
		return
	}
	if input.Email, ok = m.prompt("Enter email: "); !ok {
		return
	}
	if input.EnrollmentDate, ok = m.prompt("Enter enrollment date (YYYY-MM-DD): "); !ok {
		return
	}

	// Validate before touching the store.
	if err := m.validate.Struct(input); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		render.Errorf(m.out, "Error: %s.", render.ValidationError(validateErrs))
		return
	}

	id, err := m.storage.CreateStudent(
		input.FirstName, input.LastName, input.Email, input.EnrollmentDate,
	)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			render.Errorf(m.out, "Error: Email '%s' already exists in the database.", input.Email)
			return
		}
		m.log.Error("error adding student", slog.String("error", err.Error()))
		render.Errorf(m.out, "Error adding student.")
		return
	}

	m.log.Info("student created", slog.Int64("id", id))
	render.Created(m.out, id, input)
}

// updateStudentEmail changes the email of one record. The record is looked
// up first so a missing id is reported without attempting a write and the
// confirmation can show the old address next to the new one.
func (m *Menu) updateStudentEmail() {
	fmt.Fprintln(m.out, "\n--- Update Student Email ---")

	id, ok := m.promptID("Enter student ID: ")
	if !ok {
		return
	}

	newEmail, ok := m.prompt("Enter new email: ")
	if !ok {
		return
	}
	if newEmail == "" {
		render.Errorf(m.out, "Error: New email is required.")
		return
	}

	student, err := m.storage.GetStudentByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			render.Errorf(m.out, "Error: No student found with ID %d.", id)
			return
		}
		m.log.Error("error looking up student",
			slog.Int64("id", id), slog.String("error", err.Error()))
		render.Errorf(m.out, "Error updating student email.")
		return
	}

	affected, err := m.storage.UpdateStudentEmail(id, newEmail)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			render.Errorf(m.out, "Error: Email '%s' already exists in the database.", newEmail)
			return
		}
		m.log.Error("error updating student email",
			slog.Int64("id", id), slog.String("error", err.Error()))
		render.Errorf(m.out, "Error updating student email.")
		return
	}

	// The row can vanish between lookup and write; that is a no-op
	// outcome, not a store error.
	if affected == 0 {
		render.Errorf(m.out, "No changes made.")
		return
	}

	m.log.Info("student email updated", slog.Int64("id", id))
	render.EmailUpdated(m.out, student, newEmail)
}

// deleteStudent removes one record after an explicit confirmation. The
// record is looked up first so the confirmation block can echo its fields.
func (m *Menu) deleteStudent() {
	fmt.Fprintln(m.out, "\n--- Delete Student ---")

	id, ok := m.promptID("Enter student ID to delete: ")
	if !ok {
		return
	}

	confirm, ok := m.prompt(
		fmt.Sprintf("Are you sure you want to delete student %d? (yes/no): ", id))
	if !ok {
		return
	}

	// Only an exact "yes" (any casing) proceeds; everything else cancels
	// without touching the store.
	if !strings.EqualFold(confirm, "yes") {
		fmt.Fprintln(m.out, "\nDeletion cancelled.")
		return
	}

	student, err := m.storage.GetStudentByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			render.Errorf(m.out, "Error: No student found with ID %d.", id)
			return
		}
		m.log.Error("error looking up student",
			slog.Int64("id", id), slog.String("error", err.Error()))
		render.Errorf(m.out, "Error deleting student.")
		return
	}

	affected, err := m.storage.DeleteStudentByID(id)
	if err != nil {
		m.log.Error("error deleting student",
			slog.Int64("id", id), slog.String("error", err.Error()))
		render.Errorf(m.out, "Error deleting student.")
		return
	}

	if affected == 0 {
		render.Errorf(m.out, "No student was deleted.")
		return
	}

	m.log.Info("student deleted", slog.Int64("id", id))
	render.Deleted(m.out, student)
}
