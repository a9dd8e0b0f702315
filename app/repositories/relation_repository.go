package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"inkwell/app/models"
)

// BadgerRelationRepository implements RelationRepository using
// BadgerDB. A relation's key is <kind>:<postID>:<userID>, so the store
// itself guarantees at most one row per (kind, post, user).
type BadgerRelationRepository struct {
	db *badger.DB
}

// NewBadgerRelationRepository creates a new BadgerRelationRepository
func NewBadgerRelationRepository(db *badger.DB) *BadgerRelationRepository {
	return &BadgerRelationRepository{db: db}
}

// Toggle flips the relation for (kind, post, user): inserts it when
// absent, deletes it when present. The check and the write share one
// transaction; if a concurrent toggle commits first, the transaction
// aborts with a conflict and runUpdate re-runs it against the committed
// state, so the alternation never produces a duplicate row or a lost
// delete. Returns true when the relation was added.
func (r *BadgerRelationRepository) Toggle(kind models.RelationKind, postID int, userID string) (bool, error) {
	var added bool
	key := relationKey(kind, postID, userID)

	err := runUpdate(r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			id, err := getNextID(txn, relationSeqKey(kind))
			if err != nil {
				return err
			}
			rel := &models.Relation{ID: id, PostID: postID, UserID: userID}
			rel.BeforeCreate()

			data, err := marshalEntity(rel)
			if err != nil {
				return err
			}
			added = true
			return txn.Set(key, data)
		}
		if err != nil {
			return err
		}
		added = false
		return txn.Delete(key)
	})

	if err != nil {
		return false, err
	}
	return added, nil
}

// Exists reports whether the relation row is present
func (r *BadgerRelationRepository) Exists(kind models.RelationKind, postID int, userID string) (bool, error) {
	var exists bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(relationKey(kind, postID, userID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CountByPost counts the relation rows for a post
func (r *BadgerRelationRepository) CountByPost(kind models.RelationKind, postID int) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%d:", relationKeyPrefix(kind), postID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListPostIDsByUser returns the IDs of every post the user has the
// given relation with
func (r *BadgerRelationRepository) ListPostIDsByUser(kind models.RelationKind, userID string) ([]int, error) {
	var postIDs []int
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(relationKeyPrefix(kind))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var rel models.Relation
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &rel)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal relation: %v", err)
			}
			if rel.UserID == userID {
				postIDs = append(postIDs, rel.PostID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}

// DeleteByPost removes every like and bookmark row for a post
func (r *BadgerRelationRepository) DeleteByPost(postID int) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		var keys [][]byte
		for _, kind := range []models.RelationKind{models.KindLike, models.KindBookmark} {
			it := txn.NewIterator(opts)
			prefix := []byte(fmt.Sprintf("%s%d:", relationKeyPrefix(kind), postID))
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				keys = append(keys, it.Item().KeyCopy(nil))
			}
			it.Close()
		}

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
