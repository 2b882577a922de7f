package dto

type TradeRequest struct {
	AmountMg int64 `json:"amountMg" validate:"gt=0"`
}

type EnrollRequest struct {
	SlabAmountPaise int64  `json:"slabAmountPaise" validate:"gt=0"`
	SGXCode         string `json:"sgxCode,omitempty"`
}

type SGXVerifyRequest struct {
	Code               string `json:"code" validate:"required"`
	MonthlyAmountPaise int64  `json:"monthlyAmountPaise" validate:"gt=0"`
}

type DeliveryRequest struct {
	AmountMg        int64  `json:"amountMg" validate:"gt=0"`
	ProductType     string `json:"productType" validate:"oneof=coin bar"`
	ProductWeightMg int64  `json:"productWeightMg" validate:"gt=0"`
	PickupStoreID   string `json:"pickupStoreId" validate:"required"`
}
