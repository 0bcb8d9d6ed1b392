// Package wallet is the financial ledger: one wallet per (party, role) with
// an append-only transaction log. The stored balance is a cached fold over
// the log, never an independent source of truth.
package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

type Role string

const (
	RoleUser     Role = "user"
	RolePartner  Role = "partner"
	RolePlatform Role = "platform"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RolePartner, RolePlatform:
		return true
	}
	return false
}

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

type Category string

const (
	CategoryBookingPayment      Category = "booking_payment"
	CategoryRefund              Category = "refund"
	CategoryCommissionDeduction Category = "commission_deduction"
	CategoryWithdrawal          Category = "withdrawal"
	CategoryTopup               Category = "topup"
	CategoryCommissionTax       Category = "commission_tax"
	CategoryAdjustment          Category = "adjustment"
)

type Wallet struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Role             Role
	Balance          int64
	TotalEarnings    int64
	TotalWithdrawals int64
	PendingClearance int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Transaction is one append-only ledger entry. BalanceAfter snapshots the
// wallet balance immediately after the entry was applied, so replaying the
// log in creation order reproduces the balance exactly.
type Transaction struct {
	ID           uuid.UUID
	WalletID     uuid.UUID
	OwnerID      uuid.UUID
	Direction    Direction
	Category     Category
	Amount       int64
	BalanceAfter int64
	Reference    string
	Status       string
	CreatedAt    time.Time
}

const StatusCompleted = "completed"

// Credit increases the balance and appends an entry. Topups are not
// earnings; every other credit counts toward totalEarnings.
func (w *Wallet) Credit(amount int64, category Category, reference string, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	w.Balance += amount
	if category != CategoryTopup {
		w.TotalEarnings += amount
	}
	w.UpdatedAt = now
	return w.newEntry(DirectionCredit, category, amount, reference, now), nil
}

// Debit decreases the balance, failing when it would go negative.
// Commission recovery that may push a partner negative goes through
// DebitAllowNegative instead.
func (w *Wallet) Debit(amount int64, category Category, reference string, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if w.Balance < amount {
		return nil, ErrInsufficientBalance
	}
	w.Balance -= amount
	if category == CategoryWithdrawal {
		w.TotalWithdrawals += amount
	}
	w.UpdatedAt = now
	return w.newEntry(DirectionDebit, category, amount, reference, now), nil
}

// DebitAllowNegative is the reversal/commission-recovery path: the platform
// claws back money the partner already holds (or was promised), so the
// balance may legitimately go below zero.
func (w *Wallet) DebitAllowNegative(amount int64, category Category, reference string, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	w.Balance -= amount
	w.UpdatedAt = now
	return w.newEntry(DirectionDebit, category, amount, reference, now), nil
}

// RecordCashEarnings adjusts totalEarnings for a cash-collected booking:
// the money never entered the wallet, but the partner earned it.
func (w *Wallet) RecordCashEarnings(earned int64, now time.Time) {
	w.TotalEarnings += earned
	w.UpdatedAt = now
}

func (w *Wallet) newEntry(dir Direction, category Category, amount int64, reference string, now time.Time) *Transaction {
	return &Transaction{
		ID:           uuid.New(),
		WalletID:     w.ID,
		OwnerID:      w.OwnerID,
		Direction:    dir,
		Category:     category,
		Amount:       amount,
		BalanceAfter: w.Balance,
		Reference:    reference,
		Status:       StatusCompleted,
		CreatedAt:    now,
	}
}

// Replay folds a transaction log in creation order and returns the
// resulting balance. For a consistent ledger this equals the stored
// balance of the owning wallet.
func Replay(entries []*Transaction) int64 {
	var balance int64
	for _, e := range entries {
		switch e.Direction {
		case DirectionCredit:
			balance += e.Amount
		case DirectionDebit:
			balance -= e.Amount
		}
	}
	return balance
}
