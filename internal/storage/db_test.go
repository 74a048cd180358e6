package storage

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	return db
}

func TestSeedCategoriesIdempotent(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.SeedCategories(); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := db.SeedCategories(); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	cats, err := db.CategoriesByName()
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}
	if len(cats) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(cats))
	}
	in, ok := cats["Incoming Transfer"]
	if !ok {
		t.Fatalf("missing Incoming Transfer")
	}
	if in.IsDebit {
		t.Fatalf("Incoming Transfer should be a credit")
	}
	if in.FeeApplicable {
		t.Fatalf("Incoming Transfer should carry no fee")
	}
	out, ok := cats["Outgoing Transfer"]
	if !ok {
		t.Fatalf("missing Outgoing Transfer")
	}
	if !out.IsDebit || !out.FeeApplicable {
		t.Fatalf("Outgoing Transfer should be a fee-applicable debit")
	}
	dep, ok := cats["Bank Deposit"]
	if !ok {
		t.Fatalf("missing Bank Deposit")
	}
	if dep.IsDebit || dep.FeeApplicable {
		t.Fatalf("Bank Deposit should be a no-fee credit, got debit=%v fee=%v", dep.IsDebit, dep.FeeApplicable)
	}
	merch, ok := cats["Merchant Payment"]
	if !ok {
		t.Fatalf("missing Merchant Payment")
	}
	if !merch.IsDebit || merch.FeeApplicable {
		t.Fatalf("Merchant Payment should be a no-fee debit, got debit=%v fee=%v", merch.IsDebit, merch.FeeApplicable)
	}
}

func TestFindUserByIdentity(t *testing.T) {
	db := newTestDatabase(t)

	u := &User{FullName: "Jane Doe", PhoneNumber: "250791111111", UserType: UserIndividual, IsActive: true}
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := db.FindUserByIdentity("Jane Doe", "250791111111")
	if err != nil {
		t.Fatalf("find with phone: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("expected user %d, got %+v", u.ID, got)
	}

	got, err = db.FindUserByIdentity("Jane Doe", "")
	if err != nil {
		t.Fatalf("find by name only: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("expected name-only match for user %d, got %+v", u.ID, got)
	}

	got, err = db.FindUserByIdentity("Jane Doe", "250799999999")
	if err != nil {
		t.Fatalf("find with wrong phone: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no match for wrong phone, got user %d", got.ID)
	}

	got, err = db.FindUserByIdentity("Nobody", "")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no match for unknown name")
	}
}

func TestTransactionWithParties(t *testing.T) {
	db := newTestDatabase(t)
	if err := db.SeedCategories(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cats, err := db.CategoriesByName()
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}

	owner := &User{FullName: "Account Owner", AccountNumber: "36521838", UserType: UserIndividual, IsActive: true}
	if err := db.CreateUser(owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}

	txn := &Transaction{
		CategoryID:   cats["Bank Deposit"].ID,
		Amount:       decimal.RequireFromString("40000"),
		Fee:          decimal.Zero,
		BalanceAfter: decimal.RequireFromString("67300"),
		Currency:     "RWF",
		Status:       StatusCompleted,
	}
	if err := db.CreateTransaction(txn); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if txn.ID == 0 {
		t.Fatalf("expected assigned transaction id")
	}

	link := &TransactionParty{TransactionID: txn.ID, UserID: owner.ID, PartyRole: RoleReceiver}
	if err := db.CreateTransactionParty(link); err != nil {
		t.Fatalf("create party link: %v", err)
	}

	parties, err := db.TransactionParties(txn.ID)
	if err != nil {
		t.Fatalf("load parties: %v", err)
	}
	if len(parties) != 1 || parties[0].PartyRole != RoleReceiver {
		t.Fatalf("unexpected parties: %+v", parties)
	}
}

func TestMarkMessageProcessedAndFailed(t *testing.T) {
	db := newTestDatabase(t)

	ok := &SmsMessage{Address: "M-Money", Body: "body one"}
	if err := db.CreateSmsMessage(ok); err != nil {
		t.Fatalf("create message: %v", err)
	}
	if err := db.MarkMessageProcessed(ok, 7); err != nil {
		t.Fatalf("mark processed: %v", err)
	}
	if !ok.IsProcessed || ok.TransactionID == nil || *ok.TransactionID != 7 {
		t.Fatalf("processed state not recorded: %+v", ok)
	}

	bad := &SmsMessage{Address: "M-Money", Body: "body two"}
	if err := db.CreateSmsMessage(bad); err != nil {
		t.Fatalf("create message: %v", err)
	}
	if err := db.MarkMessageFailed(bad, "no matching pattern"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	unprocessed, err := db.UnprocessedMessages()
	if err != nil {
		t.Fatalf("load unprocessed: %v", err)
	}
	if len(unprocessed) != 1 || unprocessed[0].ProcessingError != "no matching pattern" {
		t.Fatalf("unexpected unprocessed set: %+v", unprocessed)
	}
}
