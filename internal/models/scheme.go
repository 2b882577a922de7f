package models

import "time"

// Scheme states.
const (
	SchemeActive    = "active"
	SchemeCompleted = "completed"
	SchemeWithdrawn = "withdrawn"
	SchemePenalized = "penalized"
)

// Installment states.
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentMissed  = "missed"
	InstallmentAdvance = "advance"
)

// Installment is one monthly contribution of a scheme.
type Installment struct {
	DueDate     time.Time  `json:"dueDate"`
	PaidDate    *time.Time `json:"paidDate,omitempty"`
	AmountPaise int64      `json:"amountPaise"`
	Status      string     `json:"status"`
}

// Settled reports whether the installment counts as paid for display.
func (i Installment) Settled() bool {
	return i.Status == InstallmentPaid || i.Status == InstallmentAdvance
}

// Scheme is a savings-scheme enrollment. Installment state is computed by the backend.
type Scheme struct {
	ID               string        `json:"_id"`
	SlabAmountPaise  int64         `json:"slabAmountPaise"`
	BonusAmountPaise int64         `json:"bonusAmountPaise"`
	Status           string        `json:"status"`
	StartDate        time.Time     `json:"startDate"`
	Installments     []Installment `json:"installments"`
	MissedCount      int           `json:"missedCount"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// PaidCount counts paid and advance installments.
func (s Scheme) PaidCount() int {
	n := 0
	for _, inst := range s.Installments {
		if inst.Settled() {
			n++
		}
	}
	return n
}

// AllPaid reports whether every installment is settled.
func (s Scheme) AllPaid() bool {
	return s.PaidCount() >= len(s.Installments)
}

// Redemption is the backend's settlement of a completed scheme.
type Redemption struct {
	TotalPaidPaise    int64 `json:"totalPaidPaise"`
	BonusPaise        int64 `json:"bonusPaise"`
	TotalValuePaise   int64 `json:"totalValuePaise"`
	GoldCreditedMg    int64 `json:"goldCreditedMg"`
	PricePerGramPaise int64 `json:"pricePerGramPaise"`
}

// SGXVerification is the result of checking a referral code against a slab.
type SGXVerification struct {
	Valid  bool   `json:"valid"`
	Code   string `json:"code"`
	Reward string `json:"reward,omitempty"`
	Error  string `json:"error,omitempty"`
}
