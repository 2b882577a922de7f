package sandbox

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/sg-web/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newAccount(t *testing.T) (*Store, string) {
	t.Helper()
	s := NewStore(fixedNow)
	u, err := s.CreateAccount("9000000001", "secret1", "Asha", "")
	require.NoError(t, err)
	return s, u.ID
}

func TestCreateAccountAndAuthenticate(t *testing.T) {
	s, id := newAccount(t)

	_, err := s.CreateAccount("9000000001", "other", "Dup", "")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	u, err := s.Authenticate("9000000001", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, models.AccountRegular, u.AccountType)

	_, err = s.Authenticate("9000000001", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate("9999999999", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	s, id := newAccount(t)

	err := s.ChangePassword(id, "wrong", "newpass")
	assert.EqualError(t, err, "Current password is incorrect")

	require.NoError(t, s.ChangePassword(id, "secret1", "newpass"))
	_, err = s.Authenticate("9000000001", "newpass")
	assert.NoError(t, err)
}

func TestBuyAppliesFirstGramBonus(t *testing.T) {
	s, id := newAccount(t)

	_, bonus, w, err := s.Buy(id, 500, 700000)
	require.NoError(t, err)
	assert.Equal(t, int64(50), bonus)
	assert.Equal(t, models.Wallet{BalanceMg: 550, TotalPurchasedMg: 500, TotalBonusMg: 50}, w)

	// Only 500 mg of the threshold is left.
	_, bonus, w, err = s.Buy(id, 2000, 700000)
	require.NoError(t, err)
	assert.Equal(t, int64(50), bonus)
	assert.Equal(t, int64(100), w.TotalBonusMg)

	_, bonus, _, err = s.Buy(id, 1000, 700000)
	require.NoError(t, err)
	assert.Zero(t, bonus)

	page, err := s.Transactions(id, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
}

func TestSellRequiresBalance(t *testing.T) {
	s, id := newAccount(t)

	_, _, err := s.Sell(id, 100, 700000)
	assert.EqualError(t, err, "Insufficient gold balance")

	_, _, _, err = s.Buy(id, 1000, 700000)
	require.NoError(t, err)
	tx, w, err := s.Sell(id, 400, 700000)
	require.NoError(t, err)
	assert.Equal(t, models.TxSell, tx.Type)
	assert.Equal(t, int64(280000), tx.TotalPaise)
	assert.Equal(t, int64(700), w.BalanceMg)
}

func TestTransactionsPaging(t *testing.T) {
	s, id := newAccount(t)
	for i := 0; i < 15; i++ {
		require.NoError(t, s.Seed(id, models.Transaction{Type: models.TxBuy, AmountMg: 100}))
	}

	page, err := s.Transactions(id, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 15)
	assert.Equal(t, 15, page.Total)

	page, err = s.Transactions(id, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 5)

	page, err = s.Transactions(id, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.NotNil(t, page.Transactions)
}

func TestStorageBenefitOncePerMonth(t *testing.T) {
	s, id := newAccount(t)

	_, err := s.ClaimStorageBenefit(id)
	assert.Error(t, err)

	require.NoError(t, s.Seed(id, models.Transaction{Type: models.TxBuy, AmountMg: 1500}))
	status, err := s.StorageBenefit(id)
	require.NoError(t, err)
	assert.True(t, status.Eligible)

	claim, err := s.ClaimStorageBenefit(id)
	require.NoError(t, err)
	assert.Equal(t, int64(StorageRewardMg), claim.CreditedMg)

	_, err = s.ClaimStorageBenefit(id)
	assert.EqualError(t, err, "Storage benefit already claimed this month")

	w, err := s.Wallet(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1510), w.BalanceMg)
}

func TestSchemeSnapshotsAreIndependent(t *testing.T) {
	s, id := newAccount(t)
	enrolled, err := s.Enroll(id, 500000, "")
	require.NoError(t, err)

	before, err := s.Scheme(id, enrolled.ID)
	require.NoError(t, err)
	listed, err := s.Schemes(id)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = s.PayInstallment(id, enrolled.ID)
	require.NoError(t, err)

	for _, sc := range []models.Scheme{enrolled, before, listed[0]} {
		assert.Equal(t, models.InstallmentPending, sc.Installments[1].Status)
		assert.Nil(t, sc.Installments[1].PaidDate)
	}
	after, err := s.Scheme(id, enrolled.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.InstallmentPending, after.Installments[1].Status)
}

func TestSchemeLifecycle(t *testing.T) {
	s, id := newAccount(t)

	_, err := s.Enroll(id, 123, "")
	assert.EqualError(t, err, "Invalid slab amount")
	_, err = s.Enroll(id, 500000, "SGXGOLD")
	assert.EqualError(t, err, "SGX code is not valid for this slab")

	sc, err := s.Enroll(id, 500000, "sgx100")
	require.NoError(t, err)
	assert.Len(t, sc.Installments, SchemeInstallments)
	assert.Equal(t, 1, sc.PaidCount())
	assert.Equal(t, models.SchemeActive, sc.Status)

	_, err = s.Redeem(id, sc.ID, 700000)
	assert.EqualError(t, err, "All installments must be paid before redemption")

	for i := 1; i < SchemeInstallments; i++ {
		sc, err = s.PayInstallment(id, sc.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, models.SchemeCompleted, sc.Status)
	assert.Equal(t, models.InstallmentAdvance, sc.Installments[SchemeInstallments-1].Status)

	_, err = s.PayInstallment(id, sc.ID)
	assert.EqualError(t, err, "Scheme is not active")

	red, err := s.Redeem(id, sc.ID, 700000)
	require.NoError(t, err)
	assert.Equal(t, int64(5500000), red.TotalPaidPaise)
	assert.Equal(t, int64(6500000), red.TotalValuePaise)
	assert.Equal(t, int64(9285), red.GoldCreditedMg)

	_, err = s.Redeem(id, sc.ID, 700000)
	assert.EqualError(t, err, "Scheme already redeemed")

	_, err = s.Scheme(id, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDelivery(t *testing.T) {
	s, id := newAccount(t)
	req := models.Delivery{AmountMg: 1000, ProductType: models.ProductCoin, ProductWeightMg: 1000, PickupStoreID: "store-mum-01"}

	_, err := s.CreateDelivery(id, req)
	assert.EqualError(t, err, "Insufficient gold balance")

	require.NoError(t, s.Seed(id, models.Transaction{Type: models.TxBuy, AmountMg: 1500}))
	d, err := s.CreateDelivery(id, req)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), d.CoinChargePaise)
	assert.Equal(t, int64(1500), d.GSTPaise)
	assert.Equal(t, int64(51500), d.TotalChargePaise)
	assert.Equal(t, "pending", d.Status)

	w, err := s.Wallet(id)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.BalanceMg)

	bad := req
	bad.PickupStoreID = "nowhere"
	_, err = s.CreateDelivery(id, bad)
	assert.EqualError(t, err, "Unknown pickup store")

	bad = req
	bad.AmountMg = 500
	_, err = s.CreateDelivery(id, bad)
	assert.EqualError(t, err, "Amount must match the product weight")
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, nil)
	raw, err := tm.Generate("acc-1")
	require.NoError(t, err)

	id, err := tm.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)

	_, err = NewTokenManager("other", time.Hour, nil).Parse(raw)
	assert.Error(t, err)
}

func TestTokenFollowsInjectedClock(t *testing.T) {
	now := fixedNow()
	tm := NewTokenManager("secret", time.Hour, func() time.Time { return now })

	raw, err := tm.Generate("acc-1")
	require.NoError(t, err)
	id, err := tm.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)

	now = now.Add(2 * time.Hour)
	_, err = tm.Parse(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
