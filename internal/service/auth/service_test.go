package auth

import (
	"context"
	"testing"

	"github.com/nimbushr/attendance-gate/internal/domain/auth"
	"github.com/nimbushr/attendance-gate/internal/domain/staff"
	"github.com/nimbushr/attendance-gate/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStaffRepo struct {
	byEmail map[string]staff.Staff
}

func (f *fakeStaffRepo) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	return s, nil
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (f *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (staff.Staff, error) {
	if s, ok := f.byEmail[email]; ok {
		return s, nil
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (f *fakeStaffRepo) List(ctx context.Context, filter staff.StaffFilter) ([]staff.Staff, int64, error) {
	return nil, 0, nil
}

func newTestService(t *testing.T, members ...staff.Staff) auth.AuthService {
	t.Helper()

	repo := &fakeStaffRepo{byEmail: map[string]staff.Staff{}}
	for _, m := range members {
		repo.byEmail[m.Email] = m
	}

	return NewAuthService(repo, jwt.NewJWTService("test-secret-key-for-jwt", "1h"))
}

func testMember(t *testing.T, password string, active bool) staff.Staff {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return staff.Staff{
		ID:           "user-1",
		Email:        "jo@example.com",
		FullName:     "Jo Staff",
		PasswordHash: string(hash),
		Role:         staff.RoleStaff,
		Department:   "Engineering",
		IsActive:     active,
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t, testMember(t, "hunter2hunter2", true))

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jo@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, string(staff.RoleStaff), resp.Role)
	assert.Equal(t, "Engineering", resp.Department)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, testMember(t, "hunter2hunter2", true))

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jo@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc := newTestService(t, testMember(t, "hunter2hunter2", false))

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jo@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestLoginValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	assert.Error(t, err)
}
