package momo

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kagabo/momoledger/internal/storage"
)

// ErrNoMatch reports that no catalog shape matched a message body. The
// caller records it against the raw message; it is never fatal for a batch.
var ErrNoMatch = errors.New("no matching pattern")

// NoMatchReason is the failure reason stored on unclassifiable messages.
const NoMatchReason = "no matching pattern"

// Result is one successfully classified message: the persisted transaction,
// its party links, and the name of the shape that matched.
type Result struct {
	Transaction *storage.Transaction
	Parties     []storage.TransactionParty
	Pattern     string
}

// Engine classifies notification bodies against the shape catalog and
// persists the transactions and party links they describe. One Engine serves
// one import run; it owns the run's identity cache.
type Engine struct {
	db         *storage.Database
	resolver   *Resolver
	owner      *storage.User
	categories map[string]storage.TransactionCategory
	patterns   []pattern
	log        zerolog.Logger
}

// NewEngine loads the category table and resolves the account owner. It
// fails if any category the catalog maps to is missing from storage, so a
// bad setup surfaces before the first message rather than mid-batch.
func NewEngine(db *storage.Database, owner Owner, log zerolog.Logger) (*Engine, error) {
	categories, err := db.CategoriesByName()
	if err != nil {
		return nil, err
	}

	patterns := catalog()
	for _, p := range patterns {
		if _, ok := categories[p.category]; !ok {
			return nil, fmt.Errorf("category %q is not seeded in storage", p.category)
		}
	}

	resolver := NewResolver(db)
	ownerUser, err := resolver.ResolveOwner(owner)
	if err != nil {
		return nil, err
	}

	return &Engine{
		db:         db,
		resolver:   resolver,
		owner:      ownerUser,
		categories: categories,
		patterns:   patterns,
		log:        log,
	}, nil
}

// Classify tries each catalog shape in priority order against body. The
// first shape that matches structurally and extracts cleanly produces a
// persisted transaction with its party links. A shape whose captures fail
// extraction is treated as a non-match and the next shape is tried. When
// nothing matches, Classify returns ErrNoMatch and has written nothing.
func (e *Engine) Classify(body string) (*Result, error) {
	for _, p := range e.patterns {
		m := p.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}

		d, err := p.build(m)
		if err != nil {
			var extractErr *ExtractionError
			if errors.As(err, &extractErr) {
				e.log.Debug().Str("pattern", p.name).Err(err).Msg("extraction failed, trying next pattern")
				continue
			}
			return nil, err
		}
		if !d.amount.IsPositive() {
			e.log.Debug().Str("pattern", p.name).Msg("non-positive amount, trying next pattern")
			continue
		}

		res, err := e.persist(p, d)
		if err != nil {
			return nil, err
		}
		e.log.Debug().
			Str("pattern", p.name).
			Str("amount", res.Transaction.Amount.String()).
			Msg("classified message")
		return res, nil
	}
	return nil, ErrNoMatch
}

// persist resolves the draft's parties and writes the transaction plus its
// links. Identity resolution happens only after extraction has fully
// succeeded, so a shape that falls through leaves no records behind.
func (e *Engine) persist(p pattern, d *draft) (*Result, error) {
	users := make([]*storage.User, len(d.parties))
	for i, spec := range d.parties {
		if spec.owner {
			users[i] = e.owner
			continue
		}
		u, err := e.resolver.Resolve(spec.name, spec.phone, spec.masked, spec.utype)
		if err != nil {
			return nil, err
		}
		users[i] = u
	}

	cat := e.categories[p.category]
	txn := &storage.Transaction{
		ExternalTxnID:        d.externalTxnID,
		CategoryID:           cat.ID,
		Category:             cat,
		Amount:               d.amount,
		Fee:                  d.fee,
		BalanceAfter:         d.balanceAfter,
		Currency:             "RWF",
		TransactionTimestamp: d.timestamp,
		SenderMessage:        d.senderMessage,
		MerchantCode:         d.merchantCode,
		Status:               storage.StatusCompleted,
	}
	if err := e.db.CreateTransaction(txn); err != nil {
		return nil, err
	}

	parties := make([]storage.TransactionParty, 0, len(d.parties))
	for i, spec := range d.parties {
		link := storage.TransactionParty{
			TransactionID: txn.ID,
			UserID:        users[i].ID,
			PartyRole:     spec.role,
		}
		if err := e.db.CreateTransactionParty(&link); err != nil {
			return nil, err
		}
		parties = append(parties, link)
	}

	return &Result{Transaction: txn, Parties: parties, Pattern: p.name}, nil
}
