package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID                  string               `json:"id" bson:"_id"`
	Name                string               `json:"name" bson:"name"`
	Email               string               `json:"email" bson:"email"`
	ContactNumber       string               `json:"contact_number" bson:"contact_number"`
	ReferralID          string               `json:"referral_id" bson:"referral_id"`
	PasswordHash        string               `json:"-" bson:"password_hash"`
	Role                string               `json:"role" bson:"role"`
	CreatedAt           time.Time            `json:"created_at" bson:"created_at"`
	MortgageDetails     []MortgageEntry      `json:"mortgage_details,omitempty" bson:"mortgage_details,omitempty"`
	NewMortgageRequests []NewMortgageRequest `json:"new_mortgage_requests,omitempty" bson:"new_mortgage_requests,omitempty"`
}

// PendingRegistration stages an unverified signup. Keyed by normalized email,
// so at most one live attempt exists per address.
type PendingRegistration struct {
	Email         string    `bson:"_id"`
	Name          string    `bson:"name"`
	ContactNumber string    `bson:"contact_number"`
	PasswordHash  string    `bson:"password_hash"`
	Code          string    `bson:"code"`
	ExpiresAt     time.Time `bson:"expires_at"`
}

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Password      string `json:"password"`
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is the token shape at the HTTP boundary.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	ReferralID    string `json:"referral_id"`
	Role          string `json:"role"`
}

// Valid user roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Validation methods
func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.ContactNumber != "" && !isValidPhone(r.ContactNumber) {
		return fmt.Errorf("invalid contact number format")
	}
	return nil
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (r *VerifyCodeRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Code == "" {
		return fmt.Errorf("code is required")
	}
	return nil
}

// Normalize methods
func (r *RegisterRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *ResendCodeRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *VerifyCodeRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Code = strings.TrimSpace(r.Code)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Helper functions
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func isValidPhone(phone string) bool {
	phoneRegex := regexp.MustCompile(`^[\+]?[\d\s\-\(\)]+$`)
	return phoneRegex.MatchString(phone) && len(phone) >= 7
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		ContactNumber: u.ContactNumber,
		ReferralID:    u.ReferralID,
		Role:          u.Role,
	}
}
