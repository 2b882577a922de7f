package models

import "time"

// Transaction types.
const (
	TxBuy           = "buy"
	TxSell          = "sell"
	TxBonus         = "bonus"
	TxStorageReward = "storage_reward"
	TxSchemeCredit  = "scheme_credit"
	TxWithdrawal    = "withdrawal"
)

// Wallet holds metal quantities in milligrams.
type Wallet struct {
	BalanceMg        int64 `json:"balanceMg"`
	TotalPurchasedMg int64 `json:"totalPurchasedMg"`
	TotalBonusMg     int64 `json:"totalBonusMg"`
}

// Transaction is an immutable wallet history record.
type Transaction struct {
	ID                string    `json:"_id"`
	Type              string    `json:"type"`
	AmountMg          int64     `json:"amountMg"`
	PricePerGramPaise int64     `json:"pricePerGramPaise"`
	TotalPaise        int64     `json:"totalPaise"`
	BonusMg           int64     `json:"bonusMg"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Debit reports whether the transaction took metal out of the wallet.
func (t Transaction) Debit() bool {
	return t.Type == TxSell || t.Type == TxWithdrawal
}

// TransactionPage is one page of wallet history.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
}

// StorageBenefitStatus describes the monthly holding reward.
type StorageBenefitStatus struct {
	Eligible         bool  `json:"eligible"`
	ClaimedThisMonth bool  `json:"claimedThisMonth"`
	BalanceMg        int64 `json:"balanceMg"`
	ThresholdMg      int64 `json:"thresholdMg"`
	RewardMg         int64 `json:"rewardMg"`
}

// StorageBenefitClaim is the result of claiming the monthly reward.
type StorageBenefitClaim struct {
	CreditedMg int64 `json:"creditedMg"`
}
