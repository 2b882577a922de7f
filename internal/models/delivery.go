package models

import "time"

// Product types for physical delivery.
const (
	ProductCoin = "coin"
	ProductBar  = "bar"
)

// Store is a pickup location.
type Store struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Delivery is a physical delivery request. Charges are computed by the backend.
type Delivery struct {
	ID               string    `json:"_id"`
	AmountMg         int64     `json:"amountMg"`
	ProductType      string    `json:"productType"`
	ProductWeightMg  int64     `json:"productWeightMg"`
	CoinChargePaise  int64     `json:"coinChargePaise"`
	GSTPaise         int64     `json:"gstPaise"`
	TotalChargePaise int64     `json:"totalChargePaise"`
	PickupStoreID    string    `json:"pickupStoreId"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}
