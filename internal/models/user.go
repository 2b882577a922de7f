package models

// Account types reported by the backend.
const (
	AccountRegular  = "regular"
	AccountJeweller = "jeweller"
)

// Jeweller request states.
const (
	JewellerPending  = "pending"
	JewellerApproved = "approved"
	JewellerRejected = "rejected"
)

// User captures the account fields the front end displays. The backend owns the record.
type User struct {
	ID             string `json:"id"`
	Phone          string `json:"phone"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	AccountType    string `json:"accountType"`
	JewellerTier   string `json:"jewellerTier,omitempty"`
	JewellerStatus string `json:"jewellerStatus,omitempty"`
}

// IsJeweller reports whether the account has been upgraded.
func (u User) IsJeweller() bool {
	return u.AccountType == AccountJeweller
}
