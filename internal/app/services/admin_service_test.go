package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/auth"
)

func TestStatsDashboard(t *testing.T) {
	svc := NewStatsService(&fakeStats{
		summary: models.StudentSummary{Total: 420, Boys: 210, Girls: 205},
		current: 64,
	}, nopLogger)

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{TotalStudents: 420, Boys: 210, Girls: 205, PlusTwo: 64}, got)

	svc = NewStatsService(&fakeStats{err: errBoom}, nopLogger)
	_, err = svc.Dashboard(context.Background())
	ce := requireCustom(t, err)
	assert.Equal(t, apperrors.KindStorage, ce.Kind)
	assert.Equal(t, MsgStatsFailed, ce.Message)
}

func newAuthFixture(t *testing.T, active bool) *AuthService {
	t.Helper()
	hash, err := auth.NewHasher(4).Hash("ramshrestha101")
	require.NoError(t, err)
	users := &fakeUsers{byName: map[string]*models.User{
		"ramshrestha101": {
			ID:           101,
			Username:     "ramshrestha101",
			PasswordHash: hash,
			Role:         models.RoleStudent,
			FullName:     "Ram Shrestha",
			IsActive:     active,
		},
	}}
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "schoolsite"})
	return NewAuthService(users, jwtSvc, nopLogger)
}

func TestLogin_IssuesToken(t *testing.T) {
	svc := newAuthFixture(t, true)

	res, err := svc.Login(context.Background(), &dto.LoginRequest{Username: " ramshrestha101 ", Password: "ramshrestha101"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token.AccessToken)
	assert.Equal(t, "Bearer", res.Token.TokenType)
	assert.Equal(t, int64(3600), res.Token.ExpiresIn)
	assert.Equal(t, int64(101), res.User.ID)
	assert.Equal(t, "student", res.User.Role)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "schoolsite"})
	claims, err := jwtSvc.ValidateAndExtractClaims(res.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(101), claims.UserID)
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		req      dto.LoginRequest
		sentinel error
	}{
		{"wrong password", true, dto.LoginRequest{Username: "ramshrestha101", Password: "nope"}, apperrors.ErrInvalidCredentials},
		{"unknown user", true, dto.LoginRequest{Username: "ghost", Password: "x"}, apperrors.ErrInvalidCredentials},
		{"empty", true, dto.LoginRequest{}, apperrors.ErrInvalidCredentials},
		{"disabled", false, dto.LoginRequest{Username: "ramshrestha101", Password: "ramshrestha101"}, apperrors.ErrAccountDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthFixture(t, tt.active)
			_, err := svc.Login(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, apperrors.KindUserInput, apperrors.KindOf(err))
		})
	}
}

type fakeYears struct {
	years map[int64]*models.AcademicYear
	err   error
}

func (f *fakeYears) YearByID(ctx context.Context, q db.Querier, id int64) (*models.AcademicYear, error) {
	y, ok := f.years[id]
	if !ok {
		return nil, apperrors.ErrAcademicYearNotFound
	}
	return y, nil
}

func (f *fakeYears) SetCurrentYear(ctx context.Context, q db.Querier, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.years[id]; !ok {
		return apperrors.ErrAcademicYearNotFound
	}
	for yid, y := range f.years {
		y.IsCurrent = yid == id
	}
	return nil
}

func TestSetCurrentYear(t *testing.T) {
	years := &fakeYears{years: map[int64]*models.AcademicYear{
		1: {ID: 1, Name: "2080", StartDate: time.Date(2023, 4, 14, 0, 0, 0, 0, time.UTC), IsCurrent: true},
		2: {ID: 2, Name: "2081", StartDate: time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC)},
	}}
	tx := &fakeTx{}
	svc := NewAdminService(tx, years, &fakeNotices{}, nil, nopLogger)

	got, err := svc.SetCurrentYear(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, &dto.AcademicYearResponse{ID: 2, Name: "2081", StartDate: "2024-04-13", IsCurrent: true}, got)
	assert.False(t, years.years[1].IsCurrent)
	assert.Equal(t, 1, tx.calls)

	_, err = svc.SetCurrentYear(context.Background(), 9)
	ce := requireCustom(t, err)
	assert.Equal(t, apperrors.KindResolution, ce.Kind)
	assert.Equal(t, MsgYearNotFound, ce.Message)

	years.err = errBoom
	_, err = svc.SetCurrentYear(context.Background(), 1)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}

type recordingPublisher struct {
	types []string
	data  []interface{}
}

func (p *recordingPublisher) Publish(eventType string, data interface{}) {
	p.types = append(p.types, eventType)
	p.data = append(p.data, data)
}

func TestCreateNotice(t *testing.T) {
	store := &fakeNotices{}
	pub := &recordingPublisher{}
	svc := NewAdminService(&fakeTx{}, &fakeYears{}, store, pub, nopLogger)

	got, err := svc.CreateNotice(context.Background(), &dto.CreateNoticeRequest{
		Title:    " Sports week ",
		Text:     "Starts Monday.",
		Category: "Sports",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Sports week", got.Title)
	require.Len(t, store.created, 1)
	assert.Equal(t, []string{EventNoticeCreated}, pub.types)
	assert.Same(t, got, pub.data[0])

	_, err = svc.CreateNotice(context.Background(), &dto.CreateNoticeRequest{Title: "x", Text: "  ", Category: "y"})
	ce := requireCustom(t, err)
	assert.Equal(t, MsgNoticeInvalid, ce.Message)
	assert.Len(t, store.created, 1)
	assert.Len(t, pub.types, 1, "rejected notices are not published")
}
