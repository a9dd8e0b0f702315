package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"inkwell/app/models"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

func commentKey(postID, commentID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CommentKeyPrefix, postID, commentID))
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		// Post ID lives in the key for efficient per-post listing
		return txn.Set(commentKey(comment.PostID, comment.ID), data)
	})
}

// GetByID retrieves a comment by ID. Keys are grouped by post, so a
// lookup by bare comment ID scans the comment prefix.
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment
	var found bool

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CommentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %v", err)
			}
			if comment.ID == id {
				found = true
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%d:", CommentKeyPrefix, postID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var comment models.Comment
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %v", err)
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost counts the comments on a post without unmarshalling them
func (r *BadgerCommentRepository) CountByPost(postID int) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%d:", CommentKeyPrefix, postID))
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

// Update updates an existing comment in place under its original key
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		key := commentKey(comment.PostID, comment.ID)

		// Verify comment exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	comment, err := r.GetByID(id)
	if err != nil {
		return err
	}

	return runUpdate(r.db, func(txn *badger.Txn) error {
		return txn.Delete(commentKey(comment.PostID, comment.ID))
	})
}

// DeleteByPost removes every comment on a post
func (r *BadgerCommentRepository) DeleteByPost(postID int) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		prefix := []byte(fmt.Sprintf("%s%d:", CommentKeyPrefix, postID))
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
