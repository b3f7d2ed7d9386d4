package menu

import (
	"bytes"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage is an in-memory storage.Storage for driving the menu
// without a database. Call counters let tests assert that local
// validation failures never reach the store.
type fakeStorage struct {
	students map[int64]types.Student
	nextID   int64

	createCalls int
	updateCalls int
	deleteCalls int

	forcedErr error // returned by every operation when set
}

var _ storage.Storage = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{students: map[int64]types.Student{}}
}

func (f *fakeStorage) CreateStudent(firstName, lastName, email, enrollmentDate string) (int64, error) {
	f.createCalls++
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	for _, s := range f.students {
		if s.Email == email {
			return 0, storage.ErrDuplicateEmail
		}
	}
	f.nextID++
	f.students[f.nextID] = types.Student{
		ID:             f.nextID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		EnrollmentDate: enrollmentDate,
	}
	return f.nextID, nil
}

func (f *fakeStorage) GetStudentByID(id int64) (types.Student, error) {
	if f.forcedErr != nil {
		return types.Student{}, f.forcedErr
	}
	s, ok := f.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeStorage) GetStudents() ([]types.Student, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	students := make([]types.Student, 0, len(f.students))
	for _, s := range f.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (f *fakeStorage) UpdateStudentEmail(id int64, email string) (int64, error) {
	f.updateCalls++
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	s, ok := f.students[id]
	if !ok {
		return 0, nil
	}
	for _, other := range f.students {
		if other.ID != id && other.Email == email {
			return 0, storage.ErrDuplicateEmail
		}
	}
	s.Email = email
	f.students[id] = s
	return 1, nil
}

func (f *fakeStorage) DeleteStudentByID(id int64) (int64, error) {
	f.deleteCalls++
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	if _, ok := f.students[id]; !ok {
		return 0, nil
	}
	delete(f.students, id)
	return 1, nil
}

func (f *fakeStorage) Close() error { return nil }

// runSession scripts a whole interactive session: each element of lines
// is one line of user input. The returned string is everything the menu
// printed.
func runSession(t *testing.T, store storage.Storage, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := New(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, store, log)
	m.Run()

	return out.String()
}

func TestRun_ExitEndsTheLoop(t *testing.T) {
	out := runSession(t, newFakeStorage(), "5")

	assert.Contains(t, out, "STUDENT MANAGEMENT SYSTEM")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_EOFEndsTheLoop(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// No input at all: the first prompt hits EOF and Run returns.
	m := New(strings.NewReader(""), &out, newFakeStorage(), log)
	m.Run()

	assert.Contains(t, out.String(), "Enter your choice")
}

func TestRun_InvalidChoiceReturnsToMenu(t *testing.T) {
	out := runSession(t, newFakeStorage(), "9", "5")

	assert.Contains(t, out, "Invalid choice. Please enter a number between 1 and 5.")
	// The menu must be shown again after the bad choice.
	assert.Equal(t, 2, strings.Count(out, "STUDENT MANAGEMENT SYSTEM"))
}

func TestList_EmptyTable(t *testing.T) {
	out := runSession(t, newFakeStorage(), "1", "5")

	assert.Contains(t, out, "No students found in the database.")
}

func TestList_ShowsStudentsAndCount(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store, "1", "5")

	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "1840-01-01")
	assert.Contains(t, out, "Total students: 1")
}

func TestAdd_Success(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store,
		"2",
		"Ada", "Lovelace", "ada@example.com", "1840-01-01",
		"5",
	)

	assert.Contains(t, out, "✓ Student added successfully!")
	assert.Contains(t, out, "Student ID: 1")
	assert.Contains(t, out, "Name: Ada Lovelace")
	require.Len(t, store.students, 1)
}

func TestAdd_EmptyFieldFailsBeforeStoreAccess(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store,
		"2",
		"", "Lovelace", "ada@example.com", "1840-01-01",
		"5",
	)

	assert.Contains(t, out, "field FirstName is required")
	assert.Zero(t, store.createCalls)
}

func TestAdd_MalformedDateFailsBeforeStoreAccess(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store,
		"2",
		"Ada", "Lovelace", "ada@example.com", "01/01/1840",
		"5",
	)

	assert.Contains(t, out, "field EnrollmentDate must be a date in YYYY-MM-DD form")
	assert.Zero(t, store.createCalls)
}

func TestAdd_DuplicateEmailIsReportedDistinctly(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store,
		"2",
		"Someone", "Else", "ada@example.com", "2024-09-01",
		"5",
	)

	assert.Contains(t, out, "Email 'ada@example.com' already exists in the database.")
	require.Len(t, store.students, 1)
}

func TestUpdate_NonNumericIDFailsLocally(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store, "3", "abc", "5")

	assert.Contains(t, out, "Student ID must be a number.")
	assert.Zero(t, store.updateCalls)
}

func TestUpdate_EmptyEmailFailsLocally(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store, "3", "1", "", "5")

	assert.Contains(t, out, "New email is required.")
	assert.Zero(t, store.updateCalls)
}

func TestUpdate_NotFoundPerformsNoWrite(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store, "3", "999999", "ghost@example.com", "5")

	assert.Contains(t, out, "No student found with ID 999999.")
	assert.Zero(t, store.updateCalls)
}

func TestUpdate_SuccessShowsOldAndNewEmail(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store, "3", "1", "ada@newmail.com", "5")

	assert.Contains(t, out, "✓ Email updated successfully!")
	assert.Contains(t, out, "Old Email: ada@example.com")
	assert.Contains(t, out, "New Email: ada@newmail.com")
	assert.Equal(t, "ada@newmail.com", store.students[1].Email)
}

func TestUpdate_DuplicateEmailIsReportedDistinctly(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)
	_, err = store.CreateStudent("Grace", "Hopper", "grace@example.com", "1944-07-01")
	require.NoError(t, err)

	out := runSession(t, store, "3", "2", "ada@example.com", "5")

	assert.Contains(t, out, "Email 'ada@example.com' already exists in the database.")
	assert.Equal(t, "grace@example.com", store.students[2].Email)
}

func TestDelete_CancelledLeavesTheStoreUntouched(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store, "4", "1", "no", "5")

	assert.Contains(t, out, "Deletion cancelled.")
	assert.Zero(t, store.deleteCalls)
	require.Len(t, store.students, 1)
}

func TestDelete_ConfirmationIsCaseInsensitive(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store, "4", "1", "YES", "5")

	assert.Contains(t, out, "✓ Student deleted successfully!")
	assert.Empty(t, store.students)
}

func TestDelete_AnyOtherAnswerCancels(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	// "y" is not "yes"; it must cancel.
	out := runSession(t, store, "4", "1", "y", "5")

	assert.Contains(t, out, "Deletion cancelled.")
	require.Len(t, store.students, 1)
}

func TestDelete_NotFound(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store, "4", "999999", "yes", "5")

	assert.Contains(t, out, "No student found with ID 999999.")
}

func TestDelete_EchoesCapturedFields(t *testing.T) {
	store := newFakeStorage()
	_, err := store.CreateStudent("Ada", "Lovelace", "ada@example.com", "1840-01-01")
	require.NoError(t, err)

	out := runSession(t, store, "4", "1", "yes", "5")

	assert.Contains(t, out, "Name: Ada Lovelace")
	assert.Contains(t, out, "Email: ada@example.com")
}

func TestStoreErrorsAreReportedGenerically(t *testing.T) {
	store := newFakeStorage()
	store.forcedErr = io.ErrUnexpectedEOF

	out := runSession(t, store, "1", "5")

	assert.Contains(t, out, "Error retrieving students.")
	// The driver detail must not leak to the user.
	assert.NotContains(t, out, io.ErrUnexpectedEOF.Error())
}

// The example scenario end to end: create, update the email, delete,
// confirm the final list excludes the record.
func TestFullScenario(t *testing.T) {
	store := newFakeStorage()

	out := runSession(t, store,
		"2", "Ada", "Lovelace", "ada@example.com", "1840-01-01",
		"3", "1", "ada@newmail.com",
		"4", "1", "yes",
		"1",
		"5",
	)

	assert.Contains(t, out, "✓ Student added successfully!")
	assert.Contains(t, out, "New Email: ada@newmail.com")
	assert.Contains(t, out, "✓ Student deleted successfully!")
	assert.Contains(t, out, "Email: ada@newmail.com")
	assert.Contains(t, out, "No students found in the database.")
	assert.Empty(t, store.students)
}
