package momo

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kagabo/momoledger/internal/storage"
)

// Pattern names, also the keys of the per-type counters in a run summary.
const (
	PatternIncomingTransfer = "incoming_transfer"
	PatternOutgoingTransfer = "outgoing_transfer"
	PatternMerchantPayment  = "merchant_payment"
	PatternBankDeposit      = "bank_deposit"
	PatternAirtimePurchase  = "airtime_purchase"
	PatternBundlePurchase   = "bundle_purchase"
	PatternDataBundle       = "data_bundle"
)

// partySpec describes one party link to attach to a transaction. Either the
// account owner, or an identity to resolve from the captured fields.
type partySpec struct {
	owner  bool
	name   string
	phone  string
	masked string
	utype  string
	role   string
}

// draft holds the typed fields extracted from a structurally matched body,
// before any identity is resolved or anything is persisted.
type draft struct {
	externalTxnID string
	amount        decimal.Decimal
	fee           decimal.Decimal
	balanceAfter  decimal.Decimal
	timestamp     time.Time
	senderMessage string
	merchantCode  string
	parties       []partySpec
}

// pattern is one known notification shape: a structural matcher plus a
// builder turning its captures into a draft transaction. Builders are pure;
// they fail only with *ExtractionError.
type pattern struct {
	name     string
	category string
	re       *regexp.Regexp
	build    func(m []string) (*draft, error)
}

const tsRe = `(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`

// catalog returns the known shapes in priority order. The first structural
// match wins; the shapes are kept mutually exclusive by their literal
// markers (short codes, "TxId:", leading phrasing).
func catalog() []pattern {
	return []pattern{
		{
			name:     PatternIncomingTransfer,
			category: "Incoming Transfer",
			re: regexp.MustCompile(`(?s)You have received (\d[\d,]*) RWF from (.+?) \((\*+\d+)\).*?at ` + tsRe +
				`.*?(?:Message from sender: (.*?)\. )?Your new balance[:\s]*(\d[\d,]*) RWF.*?Financial Transaction Id: (\d+)`),
			build: func(m []string) (*draft, error) {
				amount, err := ParseAmount("amount", m[1])
				if err != nil {
					return nil, err
				}
				ts, err := ParseTimestamp("timestamp", m[4])
				if err != nil {
					return nil, err
				}
				balance, err := ParseAmount("balance", m[6])
				if err != nil {
					return nil, err
				}
				return &draft{
					externalTxnID: m[7],
					amount:        amount,
					fee:           decimal.Zero,
					balanceAfter:  balance,
					timestamp:     ts,
					senderMessage: m[5],
					parties: []partySpec{
						{owner: true, role: storage.RoleReceiver},
						{name: strings.TrimSpace(m[2]), masked: m[3], utype: storage.UserIndividual, role: storage.RoleSender},
					},
				}, nil
			},
		},
		{
			name:     PatternOutgoingTransfer,
			category: "Outgoing Transfer",
			re: regexp.MustCompile(`(?s)\*165\*S\*(\d[\d,]*) RWF transferred to (.+?) \((\d+)\) from (\d+) at ` + tsRe +
				`.*?Fee was: (\d[\d,]*) RWF.*?New balance: (\d[\d,]*) RWF`),
			build: func(m []string) (*draft, error) {
				amount, err := ParseAmount("amount", m[1])
				if err != nil {
					return nil, err
				}
				ts, err := ParseTimestamp("timestamp", m[5])
				if err != nil {
					return nil, err
				}
				fee, err := ParseAmount("fee", m[6])
				if err != nil {
					return nil, err
				}
				balance, err := ParseAmount("balance", m[7])
				if err != nil {
					return nil, err
				}
				return &draft{
					amount:       amount,
					fee:          fee,
					balanceAfter: balance,
					timestamp:    ts,
					parties: []partySpec{
						{owner: true, role: storage.RoleSender},
						{name: strings.TrimSpace(m[2]), phone: m[3], utype: storage.UserIndividual, role: storage.RoleReceiver},
					},
				}, nil
			},
		},
		{
			name:     PatternMerchantPayment,
			category: "Merchant Payment",
			re: regexp.MustCompile(`(?s)TxId: (\d+)\. Your payment of (\d[\d,]*) RWF to (.+?) (\d+) has been completed at ` + tsRe +
				`.*?Your new balance: (\d[\d,]*) RWF.*?Fee was (\d[\d,]*) RWF`),
			build: func(m []string) (*draft, error) {
				amount, err := ParseAmount("amount", m[2])
				if err != nil {
					return nil, err
				}
				ts, err := ParseTimestamp("timestamp", m[5])
				if err != nil {
					return nil, err
				}
				balance, err := ParseAmount("balance", m[6])
				if err != nil {
					return nil, err
				}
				fee, err := ParseAmount("fee", m[7])
				if err != nil {
					return nil, err
				}
				return &draft{
					externalTxnID: m[1],
					amount:        amount,
					fee:           fee,
					balanceAfter:  balance,
					timestamp:     ts,
					merchantCode:  m[4],
					parties: []partySpec{
						{owner: true, role: storage.RoleSender},
						{name: strings.TrimSpace(m[3]), utype: storage.UserMerchant, role: storage.RoleMerchant},
					},
				}, nil
			},
		},
		{
			name:     PatternBankDeposit,
			category: "Bank Deposit",
			re: regexp.MustCompile(`(?s)\*113\*R\*A bank deposit of (\d[\d,]*) RWF has been added.*?at ` + tsRe +
				`.*?NEW BALANCE\s*[:\s]*(\d[\d,]*) RWF`),
			build: func(m []string) (*draft, error) {
				amount, err := ParseAmount("amount", m[1])
				if err != nil {
					return nil, err
				}
				ts, err := ParseTimestamp("timestamp", m[2])
				if err != nil {
					return nil, err
				}
				balance, err := ParseAmount("balance", m[3])
				if err != nil {
					return nil, err
				}
				// No counterparty identity in the body; the owner side is
				// the only link.
				return &draft{
					amount:       amount,
					fee:          decimal.Zero,
					balanceAfter: balance,
					timestamp:    ts,
					parties: []partySpec{
						{owner: true, role: storage.RoleReceiver},
					},
				}, nil
			},
		},
		{
			name:     PatternAirtimePurchase,
			category: "Airtime Purchase",
			re: regexp.MustCompile(`(?s)\*162\*TxId:(\d+)\*S\*Your payment of (\d[\d,]*) RWF to Airtime.*?at ` + tsRe +
				`.*?Fee was (\d[\d,]*) RWF.*?new balance: (\d[\d,]*) RWF`),
			build: buildServicePurchase("MTN Airtime"),
		},
		{
			name:     PatternBundlePurchase,
			category: "Bundle Purchase",
			re: regexp.MustCompile(`(?s)\*162\*TxId:(\d+)\*S\*Your payment of (\d[\d,]*) RWF to Bundles and Packs.*?at ` + tsRe +
				`.*?Fee was (\d[\d,]*) RWF.*?new balance: (\d[\d,]*) RWF`),
			build: buildServicePurchase("Bundles and Packs"),
		},
		{
			name:     PatternDataBundle,
			category: "Data Bundle",
			re: regexp.MustCompile(`(?s)\*164\*S\*.*?transaction of (\d[\d,]*) RWF by Data Bundle MTN.*?at ` + tsRe +
				`.*?new balance[:\s]*(\d[\d,]*)\s*RWF.*?Fee was (\d[\d,]*) RWF.*?Financial Transaction Id: (\d+)`),
			build: func(m []string) (*draft, error) {
				amount, err := ParseAmount("amount", m[1])
				if err != nil {
					return nil, err
				}
				ts, err := ParseTimestamp("timestamp", m[2])
				if err != nil {
					return nil, err
				}
				balance, err := ParseAmount("balance", m[3])
				if err != nil {
					return nil, err
				}
				fee, err := ParseAmount("fee", m[4])
				if err != nil {
					return nil, err
				}
				return &draft{
					externalTxnID: m[5],
					amount:        amount,
					fee:           fee,
					balanceAfter:  balance,
					timestamp:     ts,
					parties: []partySpec{
						{owner: true, role: storage.RoleSender},
						{name: "Data Bundle MTN", utype: storage.UserService, role: storage.RoleServiceProvider},
					},
				}, nil
			},
		},
	}
}

// buildServicePurchase covers the *162* shapes, which share a capture order:
// txid, amount, timestamp, fee, balance.
func buildServicePurchase(serviceName string) func(m []string) (*draft, error) {
	return func(m []string) (*draft, error) {
		amount, err := ParseAmount("amount", m[2])
		if err != nil {
			return nil, err
		}
		ts, err := ParseTimestamp("timestamp", m[3])
		if err != nil {
			return nil, err
		}
		fee, err := ParseAmount("fee", m[4])
		if err != nil {
			return nil, err
		}
		balance, err := ParseAmount("balance", m[5])
		if err != nil {
			return nil, err
		}
		return &draft{
			externalTxnID: m[1],
			amount:        amount,
			fee:           fee,
			balanceAfter:  balance,
			timestamp:     ts,
			parties: []partySpec{
				{owner: true, role: storage.RoleSender},
				{name: serviceName, utype: storage.UserService, role: storage.RoleServiceProvider},
			},
		}, nil
	}
}
