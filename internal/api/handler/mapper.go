package handler

import (
	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

// --- Request → Service input ---

func toCreateUserInput(req createUserRequest, createdBy string) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Password:  req.Password,
		CreatedBy: createdBy,
	}
}

// --- Service result → HTTP response ---

func toUserSummary(id domain.Identity) userSummary {
	return userSummary{
		ID:    id.UserID,
		Name:  id.Name,
		Email: id.Email,
		Role:  id.Role.String(),
	}
}

func toLoginResponse(r *ports.LoginResult) loginResponse {
	return loginResponse{
		Message:   "Login successful",
		Token:     r.Token,
		ExpiresAt: r.Claims.ExpiresAt.UTC(),
		User:      toUserSummary(r.Claims.Identity),
	}
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
	if u.LastLoginAt != nil {
		t := u.LastLoginAt.UTC()
		resp.LastLoginAt = &t
	}
	return resp
}

func toUserListResponse(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
