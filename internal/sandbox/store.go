package sandbox

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/sg-web/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidCredentials is returned for a wrong phone or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RuleError is a business rule refusal. Its text is returned to the caller.
type RuleError string

func (e RuleError) Error() string { return string(e) }

// Sandbox business constants.
const (
	BonusThresholdMg       = 1000
	BonusMaxMg             = 100
	BonusPercent           = 10
	StorageThresholdMg     = 1000
	StorageRewardMg        = 10
	SchemeInstallments     = 11
	GSTPercent             = 3
	coinChargePerGramPaise = 50000
	barChargePerGramPaise  = 30000
)

// schemeBonus maps an offered monthly slab to its bonus.
var schemeBonus = map[int64]int64{
	500000:   1000000,
	1000000:  2000000,
	2000000:  4000000,
	4000000:  8000000,
	6000000:  12000000,
	8000000:  16000000,
	10000000: 24000000,
}

// sgxCodes are the referral codes the sandbox accepts, keyed by code with the minimum
// monthly amount and the advertised reward.
var sgxCodes = map[string]struct {
	minMonthly int64
	reward     string
}{
	"SGX100":  {minMonthly: 500000, reward: "100mg bonus gold on your first installment"},
	"SGXGOLD": {minMonthly: 2000000, reward: "1g bonus gold on completion"},
}

type account struct {
	user         models.User
	passwordHash string
	wallet       models.Wallet
	transactions []models.Transaction
	schemes      []*models.Scheme
	deliveries   []models.Delivery
	claimedMonth string
}

// Store keeps every sandbox account in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account
	byPhone  map[string]string
	stores   []models.Store
	now      func() time.Time
}

// NewStore returns an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		accounts: make(map[string]*account),
		byPhone:  make(map[string]string),
		stores:   defaultStores,
		now:      now,
	}
}

var defaultStores = []models.Store{
	{ID: "store-mum-01", Name: "SG Gold Zaveri Bazaar", City: "Mumbai", State: "Maharashtra"},
	{ID: "store-del-01", Name: "SG Gold Karol Bagh", City: "New Delhi", State: "Delhi"},
	{ID: "store-blr-01", Name: "SG Gold Jayanagar", City: "Bengaluru", State: "Karnataka"},
	{ID: "store-che-01", Name: "SG Gold T. Nagar", City: "Chennai", State: "Tamil Nadu"},
}

// CreateAccount registers a user with a bcrypt password hash.
func (s *Store) CreateAccount(phone, password, name, email string) (models.User, error) {
	phone = strings.TrimSpace(phone)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byPhone[phone]; ok {
		return models.User{}, ErrAlreadyExists
	}
	acc := &account{
		user: models.User{
			ID:          uuid.NewString(),
			Phone:       phone,
			Name:        strings.TrimSpace(name),
			Email:       strings.TrimSpace(email),
			AccountType: models.AccountRegular,
		},
		passwordHash: string(hash),
	}
	s.accounts[acc.user.ID] = acc
	s.byPhone[phone] = acc.user.ID
	return acc.user, nil
}

// Authenticate checks phone and password.
func (s *Store) Authenticate(phone, password string) (models.User, error) {
	s.mu.Lock()
	id, ok := s.byPhone[strings.TrimSpace(phone)]
	var hash string
	var user models.User
	if ok {
		acc := s.accounts[id]
		hash, user = acc.passwordHash, acc.user
	}
	s.mu.Unlock()

	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// User returns the account's user record.
func (s *Store) User(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return acc.user, nil
}

// UpdateProfile changes name and email.
func (s *Store) UpdateProfile(id, name, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if len(strings.TrimSpace(name)) < 2 {
		return models.User{}, RuleError("Name must be at least 2 characters")
	}
	acc.user.Name = strings.TrimSpace(name)
	acc.user.Email = strings.TrimSpace(email)
	return acc.user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *Store) ChangePassword(id, current, next string) error {
	if len(next) < 6 {
		return RuleError("Password must be at least 6 characters")
	}
	s.mu.Lock()
	acc, ok := s.accounts[id]
	var hash string
	if ok {
		hash = acc.passwordHash
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)); err != nil {
		return RuleError("Current password is incorrect")
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc.passwordHash = string(newHash)
	return nil
}

// RequestJeweller marks the account's jeweller request as pending.
func (s *Store) RequestJeweller(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if acc.user.IsJeweller() {
		return models.User{}, RuleError("Account is already a jeweller account")
	}
	if acc.user.JewellerStatus == models.JewellerPending {
		return models.User{}, RuleError("A jeweller request is already pending")
	}
	acc.user.JewellerStatus = models.JewellerPending
	return acc.user, nil
}

// Wallet returns the account's balances.
func (s *Store) Wallet(id string) (models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Wallet{}, ErrNotFound
	}
	return acc.wallet, nil
}

// Transactions returns one page of history, newest first.
func (s *Store) Transactions(id string, page, limit int) (models.TransactionPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.TransactionPage{}, ErrNotFound
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sorted := make([]models.Transaction, len(acc.transactions))
	copy(sorted, acc.transactions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	out := models.TransactionPage{Transactions: []models.Transaction{}, Total: len(sorted), Page: page, Limit: limit}
	start := (page - 1) * limit
	if start < len(sorted) {
		end := min(start+limit, len(sorted))
		out.Transactions = sorted[start:end]
	}
	return out, nil
}

// Buy credits amountMg at pricePerGramPaise plus any first-gram bonus.
func (s *Store) Buy(id string, amountMg, pricePerGramPaise int64) (models.Transaction, int64, models.Wallet, error) {
	if amountMg <= 0 {
		return models.Transaction{}, 0, models.Wallet{}, RuleError("Amount must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Transaction{}, 0, models.Wallet{}, ErrNotFound
	}

	bonus := firstGramBonus(acc.wallet, amountMg)
	subtotal := amountMg * pricePerGramPaise / 1000
	tx := acc.record(models.Transaction{
		Type:              models.TxBuy,
		AmountMg:          amountMg,
		PricePerGramPaise: pricePerGramPaise,
		TotalPaise:        subtotal + subtotal*GSTPercent/100,
		BonusMg:           bonus,
	}, s.now())
	acc.wallet.BalanceMg += amountMg + bonus
	acc.wallet.TotalPurchasedMg += amountMg
	if bonus > 0 {
		acc.wallet.TotalBonusMg += bonus
		acc.record(models.Transaction{Type: models.TxBonus, AmountMg: bonus}, s.now())
	}
	return tx, bonus, acc.wallet, nil
}

func firstGramBonus(w models.Wallet, amountMg int64) int64 {
	eligible := min(amountMg, BonusThresholdMg-w.TotalPurchasedMg)
	room := BonusMaxMg - w.TotalBonusMg
	if eligible <= 0 || room <= 0 {
		return 0
	}
	return min(eligible*BonusPercent/100, room)
}

// Sell debits amountMg at pricePerGramPaise.
func (s *Store) Sell(id string, amountMg, pricePerGramPaise int64) (models.Transaction, models.Wallet, error) {
	if amountMg <= 0 {
		return models.Transaction{}, models.Wallet{}, RuleError("Amount must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Transaction{}, models.Wallet{}, ErrNotFound
	}
	if acc.wallet.BalanceMg < amountMg {
		return models.Transaction{}, models.Wallet{}, RuleError("Insufficient gold balance")
	}
	tx := acc.record(models.Transaction{
		Type:              models.TxSell,
		AmountMg:          amountMg,
		PricePerGramPaise: pricePerGramPaise,
		TotalPaise:        amountMg * pricePerGramPaise / 1000,
	}, s.now())
	acc.wallet.BalanceMg -= amountMg
	return tx, acc.wallet, nil
}

func (a *account) record(tx models.Transaction, now time.Time) models.Transaction {
	tx.ID = uuid.NewString()
	tx.Status = "completed"
	tx.CreatedAt = now
	a.transactions = append(a.transactions, tx)
	return tx
}

// StorageBenefit reports this month's reward status.
func (s *Store) StorageBenefit(id string) (models.StorageBenefitStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.StorageBenefitStatus{}, ErrNotFound
	}
	return acc.storageStatus(s.now()), nil
}

func (a *account) storageStatus(now time.Time) models.StorageBenefitStatus {
	claimed := a.claimedMonth == now.Format("2006-01")
	return models.StorageBenefitStatus{
		Eligible:         !claimed && a.wallet.BalanceMg >= StorageThresholdMg,
		ClaimedThisMonth: claimed,
		BalanceMg:        a.wallet.BalanceMg,
		ThresholdMg:      StorageThresholdMg,
		RewardMg:         StorageRewardMg,
	}
}

// ClaimStorageBenefit credits this month's reward once.
func (s *Store) ClaimStorageBenefit(id string) (models.StorageBenefitClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.StorageBenefitClaim{}, ErrNotFound
	}
	now := s.now()
	status := acc.storageStatus(now)
	switch {
	case status.ClaimedThisMonth:
		return models.StorageBenefitClaim{}, RuleError("Storage benefit already claimed this month")
	case !status.Eligible:
		return models.StorageBenefitClaim{}, RuleError("Hold at least 1g of gold to claim the storage benefit")
	}
	acc.claimedMonth = now.Format("2006-01")
	acc.wallet.BalanceMg += StorageRewardMg
	acc.record(models.Transaction{Type: models.TxStorageReward, AmountMg: StorageRewardMg}, now)
	return models.StorageBenefitClaim{CreditedMg: StorageRewardMg}, nil
}

// VerifySGX checks a referral code against a monthly amount.
func VerifySGX(code string, monthlyPaise int64) models.SGXVerification {
	code = strings.ToUpper(strings.TrimSpace(code))
	entry, ok := sgxCodes[code]
	switch {
	case !ok:
		return models.SGXVerification{Code: code, Error: "Invalid SGX code"}
	case monthlyPaise < entry.minMonthly:
		return models.SGXVerification{Code: code, Error: "SGX code is not valid for this slab"}
	}
	return models.SGXVerification{Valid: true, Code: code, Reward: entry.reward}
}

// Enroll starts a scheme with the first installment paid.
func (s *Store) Enroll(id string, slabPaise int64, sgxCode string) (models.Scheme, error) {
	bonus, ok := schemeBonus[slabPaise]
	if !ok {
		return models.Scheme{}, RuleError("Invalid slab amount")
	}
	if sgxCode != "" {
		if v := VerifySGX(sgxCode, slabPaise); !v.Valid {
			return models.Scheme{}, RuleError(v.Error)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Scheme{}, ErrNotFound
	}
	now := s.now()
	sc := &models.Scheme{
		ID:               uuid.NewString(),
		SlabAmountPaise:  slabPaise,
		BonusAmountPaise: bonus,
		Status:           models.SchemeActive,
		StartDate:        now,
		CreatedAt:        now,
	}
	for i := 0; i < SchemeInstallments; i++ {
		sc.Installments = append(sc.Installments, models.Installment{
			DueDate:     now.AddDate(0, i, 0),
			AmountPaise: slabPaise,
			Status:      models.InstallmentPending,
		})
	}
	payNext(sc, now)
	acc.schemes = append(acc.schemes, sc)
	return snapshot(sc), nil
}

// snapshot copies sc so later payments do not reach values already handed out.
func snapshot(sc *models.Scheme) models.Scheme {
	out := *sc
	out.Installments = append([]models.Installment(nil), sc.Installments...)
	return out
}

func payNext(sc *models.Scheme, now time.Time) bool {
	for i := range sc.Installments {
		inst := &sc.Installments[i]
		if inst.Status != models.InstallmentPending {
			continue
		}
		paid := now
		inst.PaidDate = &paid
		inst.Status = models.InstallmentPaid
		if inst.DueDate.After(now) {
			inst.Status = models.InstallmentAdvance
		}
		if sc.AllPaid() {
			sc.Status = models.SchemeCompleted
		}
		return true
	}
	return false
}

// Schemes lists the account's schemes, newest first.
func (s *Store) Schemes(id string) ([]models.Scheme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]models.Scheme, 0, len(acc.schemes))
	for i := len(acc.schemes) - 1; i >= 0; i-- {
		out = append(out, snapshot(acc.schemes[i]))
	}
	return out, nil
}

// Scheme returns one of the account's schemes.
func (s *Store) Scheme(id, schemeID string) (models.Scheme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, err := s.scheme(id, schemeID)
	if err != nil {
		return models.Scheme{}, err
	}
	return snapshot(sc), nil
}

func (s *Store) scheme(id, schemeID string) (*models.Scheme, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, sc := range acc.schemes {
		if sc.ID == schemeID {
			return sc, nil
		}
	}
	return nil, ErrNotFound
}

// PayInstallment pays the next pending installment.
func (s *Store) PayInstallment(id, schemeID string) (models.Scheme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, err := s.scheme(id, schemeID)
	if err != nil {
		return models.Scheme{}, err
	}
	if sc.Status != models.SchemeActive {
		return models.Scheme{}, RuleError("Scheme is not active")
	}
	if !payNext(sc, s.now()) {
		return models.Scheme{}, RuleError("All installments are already paid")
	}
	return snapshot(sc), nil
}

// Redeem converts a fully paid scheme into gold at pricePerGramPaise.
func (s *Store) Redeem(id, schemeID string, pricePerGramPaise int64) (models.Redemption, error) {
	if pricePerGramPaise <= 0 {
		return models.Redemption{}, RuleError("Gold price unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, err := s.scheme(id, schemeID)
	if err != nil {
		return models.Redemption{}, err
	}
	if sc.Status == models.SchemeWithdrawn {
		return models.Redemption{}, RuleError("Scheme already redeemed")
	}
	if !sc.AllPaid() {
		return models.Redemption{}, RuleError("All installments must be paid before redemption")
	}

	var paid int64
	for _, inst := range sc.Installments {
		paid += inst.AmountPaise
	}
	total := paid + sc.BonusAmountPaise
	goldMg := total * 1000 / pricePerGramPaise

	acc := s.accounts[id]
	acc.wallet.BalanceMg += goldMg
	acc.record(models.Transaction{
		Type:              models.TxSchemeCredit,
		AmountMg:          goldMg,
		PricePerGramPaise: pricePerGramPaise,
		TotalPaise:        total,
	}, s.now())
	sc.Status = models.SchemeWithdrawn

	return models.Redemption{
		TotalPaidPaise:    paid,
		BonusPaise:        sc.BonusAmountPaise,
		TotalValuePaise:   total,
		GoldCreditedMg:    goldMg,
		PricePerGramPaise: pricePerGramPaise,
	}, nil
}

// Stores lists pickup locations.
func (s *Store) Stores() []models.Store {
	out := make([]models.Store, len(s.stores))
	copy(out, s.stores)
	return out
}

// Deliveries lists the account's delivery requests, newest first.
func (s *Store) Deliveries(id string) ([]models.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]models.Delivery, 0, len(acc.deliveries))
	for i := len(acc.deliveries) - 1; i >= 0; i-- {
		out = append(out, acc.deliveries[i])
	}
	return out, nil
}

// CreateDelivery debits the product weight and records a pending delivery.
func (s *Store) CreateDelivery(id string, d models.Delivery) (models.Delivery, error) {
	var perGram int64
	switch d.ProductType {
	case models.ProductCoin:
		perGram = coinChargePerGramPaise
	case models.ProductBar:
		perGram = barChargePerGramPaise
	default:
		return models.Delivery{}, RuleError("Invalid product type")
	}
	if d.ProductWeightMg <= 0 || d.AmountMg != d.ProductWeightMg {
		return models.Delivery{}, RuleError("Amount must match the product weight")
	}
	if !s.hasStore(d.PickupStoreID) {
		return models.Delivery{}, RuleError("Unknown pickup store")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Delivery{}, ErrNotFound
	}
	if acc.wallet.BalanceMg < d.AmountMg {
		return models.Delivery{}, RuleError("Insufficient gold balance")
	}

	now := s.now()
	d.ID = uuid.NewString()
	d.CoinChargePaise = d.ProductWeightMg * perGram / 1000
	d.GSTPaise = d.CoinChargePaise * GSTPercent / 100
	d.TotalChargePaise = d.CoinChargePaise + d.GSTPaise
	d.Status = "pending"
	d.CreatedAt = now

	acc.wallet.BalanceMg -= d.AmountMg
	acc.record(models.Transaction{Type: models.TxWithdrawal, AmountMg: d.AmountMg, TotalPaise: d.TotalChargePaise}, now)
	acc.deliveries = append(acc.deliveries, d)
	return d, nil
}

func (s *Store) hasStore(id string) bool {
	for _, st := range s.stores {
		if st.ID == id {
			return true
		}
	}
	return false
}

// Seed credits balance and history directly. Used to prepare demo accounts.
func (s *Store) Seed(id string, txs ...models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	for _, tx := range txs {
		recorded := acc.record(tx, s.now())
		if recorded.Type == models.TxBuy {
			acc.wallet.TotalPurchasedMg += tx.AmountMg
		}
		if recorded.Debit() {
			acc.wallet.BalanceMg -= tx.AmountMg
		} else {
			acc.wallet.BalanceMg += tx.AmountMg
		}
	}
	return nil
}
