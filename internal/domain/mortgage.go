package domain

import "fmt"

// MortgageEntry describes an existing mortgage held by the user.
type MortgageEntry struct {
	ID               string `json:"id" bson:"_id"`
	HasMortgage      bool   `json:"has_mortgage" bson:"has_mortgage"`
	PaymentMethod    string `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	EstPropertyValue string `json:"est_property_value,omitempty" bson:"est_property_value,omitempty"`
	MortgageAmount   string `json:"mortgage_amount,omitempty" bson:"mortgage_amount,omitempty"`
	LoanToValue      string `json:"loan_to_value,omitempty" bson:"loan_to_value,omitempty"`
	FurtherAdvance   string `json:"further_advance,omitempty" bson:"further_advance,omitempty"`
	MortgageType     string `json:"mortgage_type,omitempty" bson:"mortgage_type,omitempty"`
	ProductRateType  string `json:"product_rate_type,omitempty" bson:"product_rate_type,omitempty"`
	RenewalDate      string `json:"renewal_date,omitempty" bson:"renewal_date,omitempty"`
	Reference        string `json:"reference,omitempty" bson:"reference,omitempty"`
}

// NewMortgageRequest describes a request for a new mortgage from a user who
// does not currently hold one.
type NewMortgageRequest struct {
	ID                   string `json:"id" bson:"_id"`
	IsLookingForMortgage bool   `json:"is_looking_for_mortgage" bson:"is_looking_for_mortgage"`
	FoundProperty        string `json:"found_property,omitempty" bson:"found_property,omitempty"`
	NewMortgageType      string `json:"new_mortgage_type,omitempty" bson:"new_mortgage_type,omitempty"`
	DepositAmount        string `json:"deposit_amount,omitempty" bson:"deposit_amount,omitempty"`
	PurchasePrice        string `json:"purchase_price,omitempty" bson:"purchase_price,omitempty"`
	LoanToValue          string `json:"loan_to_value,omitempty" bson:"loan_to_value,omitempty"`
	LoanAmount           string `json:"loan_amount,omitempty" bson:"loan_amount,omitempty"`
	SourceOfDeposit      string `json:"source_of_deposit,omitempty" bson:"source_of_deposit,omitempty"`
	LoanTerm             string `json:"loan_term,omitempty" bson:"loan_term,omitempty"`
	PaymentMethod        string `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	Reference            string `json:"reference,omitempty" bson:"reference,omitempty"`
}

// MortgageDetailsRequest is the submission payload. HasMortgage selects which
// branch of fields is recorded.
type MortgageDetailsRequest struct {
	HasMortgage bool `json:"has_mortgage"`

	// Existing mortgage fields
	PaymentMethod    string `json:"payment_method,omitempty"`
	EstPropertyValue string `json:"est_property_value,omitempty"`
	MortgageAmount   string `json:"mortgage_amount,omitempty"`
	LoanToValue1     string `json:"loan_to_value_1,omitempty"`
	FurtherAdvance   string `json:"further_advance,omitempty"`
	MortgageType     string `json:"mortgage_type,omitempty"`
	ProductRateType  string `json:"product_rate_type,omitempty"`
	RenewalDate      string `json:"renewal_date,omitempty"`
	Reference1       string `json:"reference_1,omitempty"`

	// New mortgage fields
	IsLookingForMortgage bool   `json:"is_looking_for_mortgage,omitempty"`
	FoundProperty        string `json:"found_property,omitempty"`
	NewMortgageType      string `json:"new_mortgage_type,omitempty"`
	DepositAmount        string `json:"deposit_amount,omitempty"`
	PurchasePrice        string `json:"purchase_price,omitempty"`
	LoanToValue2         string `json:"loan_to_value_2,omitempty"`
	LoanAmount           string `json:"loan_amount,omitempty"`
	SourceOfDeposit      string `json:"source_of_deposit,omitempty"`
	LoanTerm             string `json:"loan_term,omitempty"`
	NewPaymentMethod     string `json:"new_payment_method,omitempty"`
	Reference2           string `json:"reference_2,omitempty"`
}

func (r *MortgageDetailsRequest) Validate() error {
	if r.HasMortgage {
		if r.MortgageAmount == "" && r.EstPropertyValue == "" {
			return fmt.Errorf("mortgage amount or property value is required")
		}
		return nil
	}
	if !r.IsLookingForMortgage {
		return fmt.Errorf("nothing to record")
	}
	return nil
}

// MortgageData groups both arrays for the current user.
type MortgageData struct {
	MortgageDetails     []MortgageEntry      `json:"mortgage_details"`
	NewMortgageRequests []NewMortgageRequest `json:"new_mortgage_requests"`
}
