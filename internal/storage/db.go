package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&User{},
		&TransactionCategory{},
		&Transaction{},
		&TransactionParty{},
		&SmsMessage{},
		&ImportAudit{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

// SeedCategories inserts the known transaction categories, skipping any that
// already exist. Safe to call on every startup.
func (d *Database) SeedCategories() error {
	cats := []TransactionCategory{
		{CategoryName: "Incoming Transfer", Description: "Money received from another MoMo user", IsDebit: false, FeeApplicable: false},
		{CategoryName: "Outgoing Transfer", CategoryCode: "*165*", Description: "Money sent to another MoMo user", IsDebit: true, FeeApplicable: true},
		{CategoryName: "Merchant Payment", Description: "Payment to registered merchant", IsDebit: true, FeeApplicable: false},
		{CategoryName: "Bank Deposit", CategoryCode: "*113*", Description: "Cash deposited via bank/agent", IsDebit: false, FeeApplicable: false},
		{CategoryName: "Airtime Purchase", CategoryCode: "*162*", Description: "Mobile airtime top-up", IsDebit: true, FeeApplicable: false},
		{CategoryName: "Bundle Purchase", CategoryCode: "*162*", Description: "Data/voice bundle purchase", IsDebit: true, FeeApplicable: false},
		{CategoryName: "Data Bundle", CategoryCode: "*164*", Description: "Internet data subscription", IsDebit: true, FeeApplicable: false},
		{CategoryName: "Cash Withdrawal", CategoryCode: "*165*", Description: "Cash withdrawn from agent", IsDebit: true, FeeApplicable: true},
	}

	for _, c := range cats {
		var existing TransactionCategory
		err := d.db.Where("category_name = ?", c.CategoryName).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up category %q: %w", c.CategoryName, err)
		}
		if err := d.db.Create(&c).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.CategoryName, err)
		}
	}
	return nil
}

// CategoriesByName loads every seeded category keyed by its name.
func (d *Database) CategoriesByName() (map[string]TransactionCategory, error) {
	var cats []TransactionCategory
	if err := d.db.Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byName := make(map[string]TransactionCategory, len(cats))
	for _, c := range cats {
		byName[c.CategoryName] = c
	}
	return byName, nil
}

// FindUserByAccount looks up a user by account number. Returns (nil, nil)
// when no such user exists.
func (d *Database) FindUserByAccount(accountNumber string) (*User, error) {
	var u User
	err := d.db.Where("account_number = ?", accountNumber).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by account: %w", err)
	}
	return &u, nil
}

// FindUserByIdentity looks up a user by exact name, narrowed by phone number
// when one is known. Returns (nil, nil) when no such user exists.
func (d *Database) FindUserByIdentity(fullName, phone string) (*User, error) {
	q := d.db.Where("full_name = ?", fullName)
	if phone != "" {
		q = q.Where("phone_number = ?", phone)
	}
	var u User
	err := q.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by identity: %w", err)
	}
	return &u, nil
}

func (d *Database) CreateUser(u *User) error {
	if err := d.db.Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (d *Database) CreateTransaction(t *Transaction) error {
	if err := d.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (d *Database) CreateTransactionParty(p *TransactionParty) error {
	if err := d.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create transaction party: %w", err)
	}
	return nil
}

func (d *Database) CreateSmsMessage(m *SmsMessage) error {
	if err := d.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create sms message: %w", err)
	}
	return nil
}

// MarkMessageProcessed links a raw message to the transaction it produced.
func (d *Database) MarkMessageProcessed(m *SmsMessage, transactionID uint) error {
	m.IsProcessed = true
	m.ProcessingError = ""
	m.TransactionID = &transactionID
	if err := d.db.Save(m).Error; err != nil {
		return fmt.Errorf("failed to mark message processed: %w", err)
	}
	return nil
}

// MarkMessageFailed records why a raw message could not be classified.
func (d *Database) MarkMessageFailed(m *SmsMessage, reason string) error {
	m.IsProcessed = false
	m.ProcessingError = reason
	if err := d.db.Save(m).Error; err != nil {
		return fmt.Errorf("failed to mark message failed: %w", err)
	}
	return nil
}

func (d *Database) CreateImportAudit(a *ImportAudit) error {
	if err := d.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to create import audit: %w", err)
	}
	return nil
}

// UnprocessedMessages returns raw messages no pattern could classify, in
// insertion order.
func (d *Database) UnprocessedMessages() ([]SmsMessage, error) {
	var msgs []SmsMessage
	if err := d.db.Where("is_processed = ?", false).Order("id").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to load unprocessed messages: %w", err)
	}
	return msgs, nil
}

// TransactionCount returns the number of stored transactions.
func (d *Database) TransactionCount() (int64, error) {
	var n int64
	if err := d.db.Model(&Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// UserCount returns the number of stored users.
func (d *Database) UserCount() (int64, error) {
	var n int64
	if err := d.db.Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// TransactionParties returns the party links for one transaction.
func (d *Database) TransactionParties(transactionID uint) ([]TransactionParty, error) {
	var parties []TransactionParty
	if err := d.db.Where("transaction_id = ?", transactionID).Find(&parties).Error; err != nil {
		return nil, fmt.Errorf("failed to load transaction parties: %w", err)
	}
	return parties, nil
}
