package user

import (
	"time"

	"github.com/google/uuid"
)

type RegisterDTO struct {
	FirstName string `json:"first_name" binding:"required,max=64"`
	LastName  string `json:"last_name" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,max=128"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshDTO struct {
	Refresh string `json:"refresh" binding:"required"`
}

type VerifyDTO struct {
	Token string `json:"token" binding:"required"`
}

type GoogleLoginDTO struct {
	Code string `json:"code" binding:"required"`
}

type UpdateUserDTO struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=64"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
	Email     *string `json:"email" binding:"omitempty,email,max=100"`
	Password  *string `json:"password" binding:"omitempty,max=128"`
}

type UpdateProfileDTO struct {
	ProfilePicture *string        `json:"profile_picture" binding:"omitempty,max=512"`
	User           *UpdateUserDTO `json:"user"`
}

type RoleResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID          uuid.UUID    `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	Role        RoleResponse `json:"role"`
	IsSuperuser bool         `json:"is_superuser"`
}

type ProfileResponse struct {
	ID             uuid.UUID    `json:"id"`
	ProfilePicture string       `json:"profile_picture"`
	TestLimit      time.Time    `json:"test_limit"`
	User           UserResponse `json:"user"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        RoleResponse{ID: u.Role.ID, Name: u.Role.Name},
		IsSuperuser: u.IsSuperuser,
	}
}

func toProfileResponse(p *Profile, u *User) *ProfileResponse {
	return &ProfileResponse{
		ID:             p.ID,
		ProfilePicture: p.ProfilePicture,
		TestLimit:      p.TrialLimit,
		User:           toUserResponse(u),
	}
}
