package repositories

import (
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"inkwell/app/models"
)

// storedUser is the persisted shape of a user record. models.User
// hides PasswordHash from JSON so it never serializes outward; the
// store has to keep it, so records go through this struct instead.
type storedUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toStoredUser(user *models.User) *storedUser {
	return &storedUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
}

func (su *storedUser) toModel() *models.User {
	return &models.User{
		ID:           su.ID,
		Username:     su.Username,
		Email:        su.Email,
		PasswordHash: su.PasswordHash,
		Role:         su.Role,
		CreatedAt:    su.CreatedAt,
	}
}

// BadgerUserRepository implements UserRepository using BadgerDB.
// Username and email uniqueness is enforced with secondary index keys
// written in the same transaction as the user record.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

func userKey(id string) []byte {
	return []byte(UserKeyPrefix + id)
}

func usernameIdxKey(username string) []byte {
	return []byte(UsernameIdxPrefix + strings.ToLower(username))
}

func emailIdxKey(email string) []byte {
	return []byte(EmailIdxPrefix + strings.ToLower(email))
}

// Create stores a new user. Returns ErrConflict when the username or
// email index key is already taken.
func (r *BadgerUserRepository) Create(user *models.User) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		for _, idx := range [][]byte{usernameIdxKey(user.Username), emailIdxKey(user.Email)} {
			_, err := txn.Get(idx)
			if err == nil {
				return ErrConflict
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
		}

		data, err := marshalEntity(toStoredUser(user))
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		if err := txn.Set(usernameIdxKey(user.Username), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(emailIdxKey(user.Email), []byte(user.ID))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id string) (*models.User, error) {
	var stored storedUser
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}
	return stored.toModel(), nil
}

// GetByUsername retrieves a user through the username index
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getByIndex(usernameIdxKey(username))
}

// GetByEmail retrieves a user through the email index
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getByIndex(emailIdxKey(email))
}

func (r *BadgerUserRepository) getByIndex(idxKey []byte) (*models.User, error) {
	var stored storedUser
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idxKey)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		rec, err := txn.Get(userKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return rec.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}
	return stored.toModel(), nil
}

// Update rewrites a user record, moving the username/email index keys
// when those fields changed. Returns ErrConflict when a new value is
// taken by another user.
func (r *BadgerUserRepository) Update(user *models.User) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(user.ID))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var existing storedUser
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &existing)
		}); err != nil {
			return err
		}

		type idxMove struct{ old, new []byte }
		var moves []idxMove
		if !strings.EqualFold(existing.Username, user.Username) {
			moves = append(moves, idxMove{usernameIdxKey(existing.Username), usernameIdxKey(user.Username)})
		}
		if !strings.EqualFold(existing.Email, user.Email) {
			moves = append(moves, idxMove{emailIdxKey(existing.Email), emailIdxKey(user.Email)})
		}

		for _, m := range moves {
			_, err := txn.Get(m.new)
			if err == nil {
				return ErrConflict
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
		}

		data, err := marshalEntity(toStoredUser(user))
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		for _, m := range moves {
			if err := txn.Delete(m.old); err != nil {
				return err
			}
			if err := txn.Set(m.new, []byte(user.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}
