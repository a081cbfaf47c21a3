package repositories

import (
	"bytes"
	"testing"

	"rawblog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetNextID(t *testing.T) {
	db := openTestBadger(t)

	t.Run("first ID", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			for i := 2; i <= 5; i++ {
				id, err := getNextID(txn, PostSeqKey)
				assert.NoError(t, err)
				assert.Equal(t, i, id)
			}
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("persistence across transactions", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, "test:seq")
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
			return nil
		})
		assert.NoError(t, err)

		err = db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, "test:seq")
			assert.NoError(t, err)
			assert.Equal(t, 2, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("corrupt sequence", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			require.NoError(t, txn.Set([]byte("bad:seq"), []byte{1, 2}))
			_, err := getNextID(txn, "bad:seq")
			return err
		})
		assert.Error(t, err)
	})
}

func TestPostKeyOrdering(t *testing.T) {
	assert.True(t, bytes.HasPrefix(postKey(7), []byte(PostKeyPrefix)))
	assert.Equal(t, -1, bytes.Compare(postKey(9), postKey(10)))
	assert.Equal(t, -1, bytes.Compare(postKey(255), postKey(256)))
	assert.False(t, bytes.HasPrefix([]byte(PostSeqKey), []byte(PostKeyPrefix)))
}

func TestMarshalEntity(t *testing.T) {
	t.Run("marshal post", func(t *testing.T) {
		post := &models.Post{ID: 1, Title: "Test Post", Content: "Test Content"}

		data, err := marshalEntity(post)
		assert.NoError(t, err)

		var unmarshaled models.Post
		err = unmarshalEntity(data, &unmarshaled)
		assert.NoError(t, err)
		assert.Equal(t, *post, unmarshaled)
	})

	t.Run("marshal invalid entity", func(t *testing.T) {
		invalidEntity := struct {
			Ch chan int
		}{
			Ch: make(chan int),
		}

		_, err := marshalEntity(invalidEntity)
		assert.Error(t, err)
	})
}

func TestUnmarshalEntity(t *testing.T) {
	t.Run("unmarshal post", func(t *testing.T) {
		data := []byte(`{"id":1,"title":"Test Post","content":"Test Content"}`)
		var post models.Post
		err := unmarshalEntity(data, &post)
		assert.NoError(t, err)
		assert.Equal(t, 1, post.ID)
		assert.Equal(t, "Test Post", post.Title)
		assert.Equal(t, "Test Content", post.Content)
	})

	t.Run("unmarshal invalid JSON", func(t *testing.T) {
		var post models.Post
		assert.Error(t, unmarshalEntity([]byte(`{"id":1,invalid json}`), &post))
	})

	t.Run("unmarshal into nil", func(t *testing.T) {
		assert.Error(t, unmarshalEntity([]byte(`{"id":1}`), nil))
	})
}

func TestParseIDStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    IDStrategy
		wantErr bool
	}{
		{in: "", want: IDSize},
		{in: "sequence", want: IDSequence},
		{in: "size", want: IDSize},
		{in: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIDStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	for _, backend := range []string{"", BackendMemory, BackendBadger, BackendSQLite} {
		t.Run("backend "+backend, func(t *testing.T) {
			repo, err := Open(backend, IDSequence)
			require.NoError(t, err)
			assert.NoError(t, repo.Close())
		})
	}

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open("postgres", IDSequence)
		assert.Error(t, err)
	})
}
