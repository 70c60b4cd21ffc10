package staff

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/domain/staff"
	"golang.org/x/crypto/bcrypt"
)

type staffService struct {
	repo     staff.StaffRepository
	recorder audit.Recorder
}

func NewStaffService(repo staff.StaffRepository, recorder audit.Recorder) staff.StaffService {
	return &staffService{
		repo:     repo,
		recorder: recorder,
	}
}

// Create implements staff.StaffService.
func (s *staffService) Create(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	actorID, actorRole, err := actorFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	role := staff.Role(strings.ToLower(req.Role))
	if role == staff.RoleAdmin && actorRole != staff.RoleAdmin {
		return staff.StaffResponse{}, staff.ErrCannotCreateAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return staff.StaffResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, staff.Staff{
		Email:        strings.ToLower(req.Email),
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		Department:   req.Department,
		IsActive:     true,
	})
	if err != nil {
		return staff.StaffResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		Action:  audit.ActionCreateStaff,
		ActorID: &actorID,
		NewValues: map[string]interface{}{
			"staff_id":   created.ID,
			"email":      created.Email,
			"role":       string(created.Role),
			"department": created.Department,
		},
	})

	return toStaffResponse(created), nil
}

// List implements staff.StaffService.
func (s *staffService) List(ctx context.Context, filter staff.StaffFilter) (staff.ListStaffResponse, error) {
	if err := filter.Validate(); err != nil {
		return staff.ListStaffResponse{}, err
	}

	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return staff.ListStaffResponse{}, err
	}

	responses := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, toStaffResponse(m))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return staff.ListStaffResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Staff:      responses,
	}, nil
}

func actorFromContext(ctx context.Context) (string, staff.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	actorID, ok := claims["user_id"].(string)
	if !ok || actorID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	role, _ := claims["role"].(string)

	return actorID, staff.Role(role), nil
}

func toStaffResponse(m staff.Staff) staff.StaffResponse {
	return staff.StaffResponse{
		ID:         m.ID,
		Email:      m.Email,
		FullName:   m.FullName,
		Role:       string(m.Role),
		Department: m.Department,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}
