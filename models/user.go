package models

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
	RoleGuest Role = "Guest"
)

// User is an account. Password is write-only: it goes out on register and
// password-change requests and is never read back from the API.
type User struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	OrganizationID int64  `json:"organizationId"`
	IsActive       bool   `json:"isActive"`
	Password       string `json:"password,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"Role"`
}

// AuthResponse is returned by /auth/login and /auth/register.
type AuthResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UpdateUserStatusRequest is the admin payload that activates or deactivates
// an account.
type UpdateUserStatusRequest struct {
	IsActive bool `json:"isActive"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Plan string

const (
	PlanFree         Plan = "Free"
	PlanStarter      Plan = "Starter"
	PlanProfessional Plan = "Professional"
	PlanEnterprise   Plan = "Enterprise"
)

// Organization is the tenant boundary. Slug is authoritative only server-side;
// clients may preview it with utils.SlugPreview.
type Organization struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Plan      Plan       `json:"plan"`
	IsActive  bool       `json:"isActive"`
	UserCount int        `json:"userCount"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name"`
	Plan Plan   `json:"plan,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name     string `json:"name,omitempty"`
	Plan     Plan   `json:"plan,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}
