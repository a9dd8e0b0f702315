package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"inkwell/app/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"
	UserKeyPrefix    = "user:id:"

	// Secondary index prefixes for user uniqueness lookups
	UsernameIdxPrefix = "user:name:"
	EmailIdxPrefix    = "user:email:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
)

// maxTxnRetries bounds the re-runs of an update transaction that lost a
// conflict race round. Each retry re-reads, so the decision is always
// made against committed state.
const maxTxnRetries = 3

// relationKeyPrefix returns the key prefix for a relation kind
// ("like:" or "bookmark:").
func relationKeyPrefix(kind models.RelationKind) string {
	return string(kind) + ":"
}

// relationKey builds the unique key for a (kind, post, user) relation.
// The key itself is the uniqueness constraint: inserting the same
// relation twice lands on the same key.
func relationKey(kind models.RelationKind, postID int, userID string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s", relationKeyPrefix(kind), postID, userID))
}

func relationSeqKey(kind models.RelationKind) string {
	return "seq:" + string(kind)
}

// getNextID gets the next available ID for a given sequence key. The
// read and write happen inside the caller's transaction, so concurrent
// allocations either serialize or abort with badger.ErrConflict and get
// retried; two creations can never observe the same ID.
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id = int(val[0])<<24 | int(val[1])<<16 | int(val[2])<<8 | int(val[3])
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// runUpdate executes fn in a read-write transaction, re-running it a
// bounded number of times when the commit loses a serializability
// conflict. fn must be idempotent against a fresh read.
func runUpdate(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = db.Update(fn)
		if err != badger.ErrConflict {
			return err
		}
	}
	return err
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}
