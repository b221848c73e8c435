package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// PaymentStatus is the composite status of a registration's payment
type PaymentStatus string

const (
	// PaymentPaid means the full package amount has been received
	PaymentPaid PaymentStatus = "PAID"
	// PaymentPending means at least part of the amount is outstanding
	PaymentPending PaymentStatus = "PENDING"
	// PaymentExempt is a manual override that zeroes the amount
	PaymentExempt PaymentStatus = "EXEMPT"
)

// PaymentMethod identifies how a payment (or payment leg) was made
type PaymentMethod string

const (
	PaymentPixAccount  PaymentMethod = "PIX_ACCOUNT"
	PaymentPixTerminal PaymentMethod = "PIX_TERMINAL"
	PaymentDebit       PaymentMethod = "DEBIT"
	PaymentCredit      PaymentMethod = "CREDIT"
	PaymentCash        PaymentMethod = "CASH"
)

// PaymentLeg tracks one of the two independently payable portions of a
// SITE_AND_BUS package (site portion, bus portion)
type PaymentLeg struct {
	IsPaid     bool           `json:"isPaid"`
	Date       *time.Time     `json:"date,omitempty"`
	Type       *PaymentMethod `json:"type,omitempty"`
	ReceiptURL *string        `json:"receiptUrl"`
}

// ClearLeg returns a leg reset to its unpaid state. Used when a partial
// payment is intentionally retracted.
func ClearLeg() PaymentLeg {
	return PaymentLeg{IsPaid: false, Date: nil, Type: nil, ReceiptURL: nil}
}

// Payment is the embedded payment value of a registration. It is stored as a
// single jsonb column, mirroring how the rest of the record's snapshots are
// kept in the action history.
type Payment struct {
	Amount     float64        `json:"amount"`
	Status     PaymentStatus  `json:"status"`
	Date       *time.Time     `json:"date,omitempty"`
	Type       *PaymentMethod `json:"type,omitempty"`
	ReceiptURL *string        `json:"receiptUrl,omitempty"`
	SiteLeg    *PaymentLeg    `json:"sitePaymentDetails,omitempty"`
	BusLeg     *PaymentLeg    `json:"busPaymentDetails,omitempty"`
}

// Value implements driver.Valuer so Payment persists as jsonb
func (p Payment) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payment")
	}
	return data, nil
}

// Scan implements sql.Scanner
func (p *Payment) Scan(value interface{}) error {
	if value == nil {
		*p = Payment{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported payment column type %T", value)
	}

	return errors.Wrap(json.Unmarshal(data, p), "failed to unmarshal payment")
}

// GormDataType tells GORM which column type to migrate for Payment
func (Payment) GormDataType() string {
	return "jsonb"
}

// DeriveOverallStatus computes the composite status from the payment legs.
// EXEMPT is a manual override and supersedes derivation. When both leg
// details exist, the status is PAID iff both legs are paid; a single unpaid
// leg keeps the whole payment PENDING.
func DeriveOverallStatus(p Payment) PaymentStatus {
	if p.Status == PaymentExempt {
		return PaymentExempt
	}
	if p.SiteLeg != nil && p.BusLeg != nil {
		if p.SiteLeg.IsPaid && p.BusLeg.IsPaid {
			return PaymentPaid
		}
		return PaymentPending
	}
	return p.Status
}

// ApplyStatusInvariant re-establishes the composite-status invariant in
// place. Every mutation path that touches payment fields must call this;
// the invariant is never assumed to persist across writes.
func (p *Payment) ApplyStatusInvariant() {
	if p.Status == PaymentExempt {
		p.Amount = 0
		p.Date = nil
		p.Type = nil
		p.ReceiptURL = nil
		if p.SiteLeg != nil {
			leg := ClearLeg()
			p.SiteLeg = &leg
		}
		if p.BusLeg != nil {
			leg := ClearLeg()
			p.BusLeg = &leg
		}
		return
	}
	p.Status = DeriveOverallStatus(*p)
}

// ToggleExemption flips a payment between EXEMPT and PENDING. Entering
// EXEMPT clears all payment detail fields and zeroes the amount; leaving it
// restores the package's standard amount with everything unpaid.
func ToggleExemption(p Payment, packageAmount float64) Payment {
	if p.Status == PaymentExempt {
		p.Status = PaymentPending
		p.Amount = packageAmount
		return p
	}

	p.Status = PaymentExempt
	p.ApplyStatusInvariant()
	return p
}
