package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// User types.
const (
	UserIndividual = "individual"
	UserMerchant   = "merchant"
	UserService    = "service"
	UserAgent      = "agent"
)

// Party roles within a transaction.
const (
	RoleSender          = "sender"
	RoleReceiver        = "receiver"
	RoleMerchant        = "merchant"
	RoleAgent           = "agent"
	RoleServiceProvider = "service_provider"
)

// Transaction statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
	StatusReversed  = "reversed"
)

// User is a party to one or more transactions: the account owner, a
// counterparty, a merchant or a service like Airtime.
type User struct {
	ID            uint   `gorm:"primaryKey"`
	FullName      string `gorm:"size:100;not null;index"`
	PhoneNumber   string `gorm:"size:15;index"`
	MaskedPhone   string `gorm:"size:15"`
	AccountNumber string `gorm:"size:20"`
	UserType      string `gorm:"size:20;default:individual"`
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionCategory is a seeded, read-only transaction type. The debit
// and fee flags carry no column default: gorm skips zero-value fields when a
// default tag is present, which would silently turn every seeded false into
// the default.
type TransactionCategory struct {
	ID            uint   `gorm:"primaryKey"`
	CategoryName  string `gorm:"size:50;not null;uniqueIndex"`
	CategoryCode  string `gorm:"size:10"`
	Description   string
	IsDebit       bool
	FeeApplicable bool
	CreatedAt     time.Time
}

// Transaction is one classified mobile-money movement. Amounts are exact
// decimals; amount must be positive and fee non-negative.
type Transaction struct {
	ID                   uint   `gorm:"primaryKey"`
	ExternalTxnID        string `gorm:"size:20;index"`
	CategoryID           uint   `gorm:"not null"`
	Category             TransactionCategory
	Amount               decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Fee                  decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	BalanceAfter         decimal.Decimal `gorm:"type:decimal(15,2)"`
	Currency             string          `gorm:"size:3;default:RWF"`
	TransactionTimestamp time.Time       `gorm:"not null;index"`
	SenderMessage        string
	MerchantCode         string `gorm:"size:10"`
	Status               string `gorm:"size:20;default:completed"`
	CreatedAt            time.Time
}

// TransactionParty links a user to a transaction in exactly one role.
type TransactionParty struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID uint   `gorm:"not null;index;uniqueIndex:uq_txn_user_role"`
	UserID        uint   `gorm:"not null;index;uniqueIndex:uq_txn_user_role"`
	PartyRole     string `gorm:"size:20;not null;uniqueIndex:uq_txn_user_role"`
	CreatedAt     time.Time
}

// SmsMessage is a raw notification as received, kept regardless of whether
// classification succeeded.
type SmsMessage struct {
	ID              uint   `gorm:"primaryKey"`
	Protocol        string `gorm:"size:10"`
	Address         string `gorm:"size:50;not null"`
	SmsDateMs       int64  `gorm:"index"`
	SmsType         int
	Body            string `gorm:"not null"`
	ServiceCenter   string `gorm:"size:20"`
	DateSentMs      int64
	ReadableDate    string `gorm:"size:50"`
	ContactName     string `gorm:"size:100"`
	IsProcessed     bool   `gorm:"default:false;index"`
	ProcessingError string
	TransactionID   *uint
	CreatedAt       time.Time
}

// ImportAudit events.
const (
	AuditStarted   = "started"
	AuditCompleted = "completed"
)

// ImportAudit records the start and completion of an import run.
type ImportAudit struct {
	ID          uint      `gorm:"primaryKey"`
	RunID       string    `gorm:"size:36;not null;index"`
	Event       string    `gorm:"size:20;not null"`
	Message     string    `gorm:"not null"`
	TotalCount  int
	ParsedCount int
	FailedCount int
	ElapsedMs   int64
	CreatedBy   string    `gorm:"size:50"`
	CreatedAt   time.Time `gorm:"index"`
}
