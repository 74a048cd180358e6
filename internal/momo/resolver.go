package momo

import (
	"fmt"

	"github.com/kagabo/momoledger/internal/storage"
)

// Resolver maps counterparty identities from notification bodies to stored
// users, creating them on first encounter. The cache is scoped to one import
// run so repeated counterparties within a batch resolve to the same row
// without re-querying.
//
// Find-or-create is a read-then-write step with no storage-level guard:
// concurrent resolvers over the same database can create duplicate users.
// Callers must keep writes single-threaded per database.
type Resolver struct {
	db    *storage.Database
	cache map[string]*storage.User
}

func NewResolver(db *storage.Database) *Resolver {
	return &Resolver{
		db:    db,
		cache: make(map[string]*storage.User),
	}
}

// Resolve returns the stored user for the given identity tuple, creating one
// of the given type if neither the cache nor storage has a match. Matching
// against storage is exact on name, narrowed by phone when present.
func (r *Resolver) Resolve(name, phone, masked, userType string) (*storage.User, error) {
	key := name + "\x00" + phone + "\x00" + masked
	if u, ok := r.cache[key]; ok {
		return u, nil
	}

	u, err := r.db.FindUserByIdentity(name, phone)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &storage.User{
			FullName:    name,
			PhoneNumber: phone,
			MaskedPhone: masked,
			UserType:    userType,
			IsActive:    true,
		}
		if err := r.db.CreateUser(u); err != nil {
			return nil, err
		}
	}

	r.cache[key] = u
	return u, nil
}

// ResolveOwner returns the account holder, looked up by account number and
// created from the configured identity if absent. The owner sits on one side
// of every counterparty-bearing transaction.
func (r *Resolver) ResolveOwner(cfg Owner) (*storage.User, error) {
	u, err := r.db.FindUserByAccount(cfg.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}
	if u != nil {
		return u, nil
	}
	u = &storage.User{
		FullName:      cfg.Name,
		PhoneNumber:   cfg.PhoneNumber,
		AccountNumber: cfg.AccountNumber,
		UserType:      storage.UserIndividual,
		IsActive:      true,
	}
	if err := r.db.CreateUser(u); err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}
	return u, nil
}

// Owner identifies the account holder whose notifications are being ingested.
type Owner struct {
	Name          string
	PhoneNumber   string
	AccountNumber string
}
