package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
)

func TestListClasses(t *testing.T) {
	mock := newMock(t)
	repo := NewClassRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM classes ORDER BY id")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Class 1").
			AddRow(int64(2), "Class 2"))

	classes, err := repo.ListClasses(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "Class 2", classes[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewClassRepository(mock)

	mock.ExpectQuery("FROM classes WHERE id").WithArgs(int64(77)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.ClassByID(context.Background(), 77)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateClass_ExistingNameReturnsID(t *testing.T) {
	mock := newMock(t)
	repo := NewClassRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (name) DO NOTHING")).WithArgs("Class 3").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM classes WHERE name = $1")).WithArgs("Class 3").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, created, err := repo.CreateClass(context.Background(), "Class 3")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentAcademicYear(t *testing.T) {
	start := time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewClassRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("FROM academic_years WHERE is_current = $1 LIMIT 1")).WithArgs(true).
			WillReturnRows(pgxmock.NewRows([]string{"id", "year_name", "start_date", "is_current"}).
				AddRow(int64(3), "2081", start, true))

		year, err := repo.CurrentAcademicYear(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), year.ID)
		assert.Equal(t, "2081", year.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none set", func(t *testing.T) {
		mock := newMock(t)
		repo := NewClassRepository(mock)

		mock.ExpectQuery("FROM academic_years").WithArgs(true).WillReturnError(pgx.ErrNoRows)

		_, err := repo.CurrentAcademicYear(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrNoCurrentAcademicYear)
		assert.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetCurrentYear(t *testing.T) {
	mock := newMock(t)
	repo := NewClassRepository(mock)
	start := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM academic_years WHERE id").WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "year_name", "start_date", "is_current"}).
			AddRow(int64(4), "2082", start, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_years SET is_current = $1 WHERE is_current = $2")).
		WithArgs(false, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_years SET is_current = $1 WHERE id = $2")).
		WithArgs(true, int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetCurrentYear(context.Background(), mock, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCurrentYear_UnknownYear(t *testing.T) {
	mock := newMock(t)
	repo := NewClassRepository(mock)

	mock.ExpectQuery("FROM academic_years WHERE id").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

	err := repo.SetCurrentYear(context.Background(), mock, 99)
	assert.ErrorIs(t, err, apperrors.ErrAcademicYearNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE LOWER(email) = $1")).
		WithArgs("ram@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := repo.EmailExists(context.Background(), "  Ram@Example.com ")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	created := time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1 LIMIT 1")).WithArgs("admin1").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "admin1", "hash", "admin", strPtr("Administrator"), nil, nil, true, created))

	user, err := repo.GetByUsername(context.Background(), "admin1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Administrator", user.FullName)
	assert.Empty(t, user.Email)
	assert.EqualValues(t, "admin", user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(5)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
