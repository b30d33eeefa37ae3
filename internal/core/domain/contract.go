package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract binds a client to an amount. Ownership follows the parent Client.
type Contract struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"`
	CommercialContact string          `json:"commercial_contact"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AmountDue         decimal.Decimal `json:"amount_due"`
	CreationDate      time.Time       `json:"creation_date"`
	Signed            bool            `json:"signed"`
	UserID            string          `json:"user_id"`
}

// Paid reports whether nothing remains due on the contract.
func (c *Contract) Paid() bool {
	return !c.AmountDue.IsPositive()
}
