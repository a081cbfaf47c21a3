package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rawblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often a write transaction is retried after
// losing a conflict with a concurrent writer.
const maxConflictRetries = 10

// BadgerPostRepository implements PostRepository on an in-memory BadgerDB.
// Writes through one repository are serialized; writers sharing the DB are
// detected as transaction conflicts and retried.
type BadgerPostRepository struct {
	db       *badger.DB
	strategy IDStrategy
	writeMu  sync.Mutex
}

// NewBadgerPostRepository opens an in-memory BadgerDB and wraps it.
// Nothing is written to disk.
func NewBadgerPostRepository(strategy IDStrategy) (*BadgerPostRepository, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return NewBadgerPostRepositoryWithDB(db, strategy), nil
}

// NewBadgerPostRepositoryWithDB wraps an already opened BadgerDB
func NewBadgerPostRepositoryWithDB(db *badger.DB, strategy IDStrategy) *BadgerPostRepository {
	if strategy == "" {
		strategy = IDSize
	}
	return &BadgerPostRepository{db: db, strategy: strategy}
}

// update runs fn in a read-write transaction, retrying on conflicts
func (r *BadgerPostRepository) update(fn func(txn *badger.Txn) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.update(func(txn *badger.Txn) error {
		if r.strategy == IDSize {
			post.ID = countKeys(txn, []byte(PostKeyPrefix)) + 1
			// Read the target key so that a concurrent create of the same ID
			// conflicts instead of silently overwriting it.
			if _, err := txn.Get(postKey(post.ID)); err != nil && err != badger.ErrKeyNotFound {
				return err
			}
		} else {
			id, err := getNextID(txn, PostSeqKey)
			if err != nil {
				return err
			}
			post.ID = id
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post in ID order
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PostKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.update(func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	return r.update(func(txn *badger.Txn) error {
		key := postKey(id)

		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

// Count returns the number of stored posts
func (r *BadgerPostRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.View(func(txn *badger.Txn) error {
		count = countKeys(txn, []byte(PostKeyPrefix))
		return nil
	})
	return count, err
}

// Close releases the underlying database
func (r *BadgerPostRepository) Close() error {
	return r.db.Close()
}
