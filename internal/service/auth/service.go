package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimbushr/attendance-gate/internal/domain/auth"
	"github.com/nimbushr/attendance-gate/internal/domain/staff"
	"github.com/nimbushr/attendance-gate/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	staffRepo  staff.StaffRepository
	jwtService jwt.Service
}

func NewAuthService(staffRepo staff.StaffRepository, jwtService jwt.Service) auth.AuthService {
	return &authService{
		staffRepo:  staffRepo,
		jwtService: jwtService,
	}
}

// Login implements auth.AuthService.
func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	member, err := s.staffRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			// Same error as a wrong password so the response does not leak
			// which emails exist
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get staff by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !member.IsActive {
		return auth.LoginResponse{}, auth.ErrAccountInactive
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(member.ID, member.Email, member.Role, member.Department)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      member.ID,
		FullName:    member.FullName,
		Role:        string(member.Role),
		Department:  member.Department,
	}, nil
}
