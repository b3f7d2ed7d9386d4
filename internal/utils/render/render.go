// Package render provides helpers for writing consistent console output.
//
// Every operation in this application reports back to the user on the
// terminal. Rather than repeating the same formatting in the menu code,
// we centralise it here: one table shape, one confirmation-block shape,
// one failure-line shape.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-manager/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/olekukonko/tablewriter"
)

// datePlaceholder is shown when a student has no enrollment date on file.
const datePlaceholder = "N/A"

// StudentTable writes all students as an aligned table followed by a
// total count. tablewriter handles the column sizing; we only feed it
// pre-formatted strings.
func StudentTable(w io.Writer, students []types.Student) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "First Name", "Last Name", "Email", "Enrollment Date"})

	for _, s := range students {
		date := s.EnrollmentDate
		if date == "" {
			date = datePlaceholder
		}

		table.Append([]string{
			strconv.FormatInt(s.ID, 10),
			s.FirstName,
			s.LastName,
			s.Email,
			date,
		})
	}

	table.Render()
	fmt.Fprintf(w, "Total students: %d\n", len(students))
}

// Created prints the confirmation block for a successful insert, echoing
// the generated id and the submitted fields.
func Created(w io.Writer, id int64, in types.NewStudentInput) {
	fmt.Fprintln(w, "\n✓ Student added successfully!")
	fmt.Fprintf(w, "  Student ID: %d\n", id)
	fmt.Fprintf(w, "  Name: %s %s\n", in.FirstName, in.LastName)
	fmt.Fprintf(w, "  Email: %s\n", in.Email)
	fmt.Fprintf(w, "  Enrollment Date: %s\n\n", in.EnrollmentDate)
}

// EmailUpdated prints the confirmation block for an email change,
// showing the old address next to the new one. The student value is the
// record as it was BEFORE the write.
func EmailUpdated(w io.Writer, student types.Student, newEmail string) {
	fmt.Fprintln(w, "\n✓ Email updated successfully!")
	fmt.Fprintf(w, "  Student ID: %d\n", student.ID)
	fmt.Fprintf(w, "  Name: %s %s\n", student.FirstName, student.LastName)
	fmt.Fprintf(w, "  Old Email: %s\n", student.Email)
	fmt.Fprintf(w, "  New Email: %s\n\n", newEmail)
}

// Deleted prints the confirmation block for a removal, echoing the fields
// captured before the row was deleted.
func Deleted(w io.Writer, student types.Student) {
	fmt.Fprintln(w, "\n✓ Student deleted successfully!")
	fmt.Fprintf(w, "  Student ID: %d\n", student.ID)
	fmt.Fprintf(w, "  Name: %s %s\n", student.FirstName, student.LastName)
	fmt.Fprintf(w, "  Email: %s\n\n", student.Email)
}

// Errorf prints a ✗-prefixed failure line. All user-facing failures go
// through here so they share one shape.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\n✗ "+format+"\n\n", args...)
}

// ValidationError converts a slice of validator.FieldError values into a
// single human-readable message.
//
// The go-playground/validator package returns one FieldError per failing
// struct field. We convert each to a plain English sentence and join them
// with ", " so the user sees a single descriptive line.
func ValidationError(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		// "required" tag — field was missing or empty
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		// "datetime" tag — field did not parse with the expected layout
		case "datetime":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a date in YYYY-MM-DD form", e.Field()))
		// Catch-all for any other validation tag
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return strings.Join(errMessages, ", ")
}
