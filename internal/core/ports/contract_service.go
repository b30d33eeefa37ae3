package ports

import "github.com/shopspring/decimal"

// CreateContractInput carries the fields of a new contract.
type CreateContractInput struct {
	ClientID    string `validate:"required"`
	TotalAmount decimal.Decimal
	AmountDue   decimal.Decimal
	Signed      bool
}

// UpdateContractInput lists the contract fields to change. Nil leaves a
// field untouched.
type UpdateContractInput struct {
	TotalAmount       *decimal.Decimal
	AmountDue         *decimal.Decimal
	Signed            *bool
	CommercialContact *string `validate:"omitempty,min=1,max=255"`
}
