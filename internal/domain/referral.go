package domain

import (
	"fmt"
	"time"
)

// Referral statuses
const (
	ReferralPending   = "pending"
	ReferralContacted = "contacted"
	ReferralCompleted = "completed"
	ReferralRejected  = "rejected"
)

var validReferralStatuses = map[string]bool{
	ReferralPending:   true,
	ReferralContacted: true,
	ReferralCompleted: true,
	ReferralRejected:  true,
}

func IsValidReferralStatus(status string) bool {
	return validReferralStatuses[status]
}

// Referral is a lead submitted by an account holder, attributed to them
// through their referral ID.
type Referral struct {
	ID            string    `json:"id" bson:"_id"`
	FirstName     string    `json:"first_name" bson:"first_name"`
	LastName      string    `json:"last_name" bson:"last_name"`
	ReferralPhone string    `json:"referral_phone,omitempty" bson:"referral_phone,omitempty"`
	ReferralEmail string    `json:"referral_email" bson:"referral_email"`
	Purpose       string    `json:"purpose" bson:"purpose"`
	Comment       string    `json:"comment,omitempty" bson:"comment,omitempty"`
	ReferralID    string    `json:"referral_id" bson:"referral_id"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type CreateReferralRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ReferralPhone string `json:"referral_phone,omitempty"`
	ReferralEmail string `json:"referral_email"`
	Purpose       string `json:"purpose"`
	Comment       string `json:"comment,omitempty"`
}

type ReferralStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (r *CreateReferralRequest) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if r.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if r.ReferralEmail == "" {
		return fmt.Errorf("referral email is required")
	}
	if !isValidEmail(r.ReferralEmail) {
		return fmt.Errorf("invalid referral email format")
	}
	if r.Purpose == "" {
		return fmt.Errorf("purpose is required")
	}
	return nil
}

func (r *CreateReferralRequest) Normalize() {
	r.ReferralEmail = NormalizeEmail(r.ReferralEmail)
}
