package repositories

import (
	"context"
	"sync"
	"testing"

	"rawblog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPostRepositoryConcurrentCreate(t *testing.T) {
	repo := NewMemoryPostRepository(IDSequence)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, &models.Post{Title: "t", Content: "c"}))
		}()
	}
	wg.Wait()

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 50)
	for i, post := range posts {
		assert.Equal(t, i+1, post.ID)
	}
}

func TestMemoryPostRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryPostRepository(IDSequence)
	ctx := context.Background()

	post := &models.Post{Title: "Original", Content: "Content"}
	require.NoError(t, repo.Create(ctx, post))
	post.Title = "Changed outside"

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	got.Title = "Changed again"
	again, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

func TestMemoryPostRepositoryClear(t *testing.T) {
	repo := NewMemoryPostRepository("")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Post{Title: "a", Content: "b"}))
	repo.Clear()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	post := &models.Post{Title: "c", Content: "d"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, 1, post.ID)
}
