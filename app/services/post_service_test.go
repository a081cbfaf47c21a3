package services

import (
	"context"
	"errors"
	"testing"

	"rawblog/app/models"
	"rawblog/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// failingRepo fails every call with err
type failingRepo struct {
	repositories.PostRepository
	err error
}

func (f *failingRepo) Create(ctx context.Context, post *models.Post) error { return f.err }
func (f *failingRepo) List(ctx context.Context) ([]*models.Post, error)    { return nil, f.err }

func TestPostService(t *testing.T) {
	ctx := context.Background()
	service := NewPostService(repositories.NewMemoryPostRepository(repositories.IDSequence))

	t.Run("create post", func(t *testing.T) {
		post, err := service.CreatePost(ctx, models.NewPostForm("Test Post", "This is a test post content"))
		require.NoError(t, err)
		assert.Equal(t, 1, post.ID)
	})

	t.Run("get post", func(t *testing.T) {
		post, err := service.GetPost(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", post.Title)
		assert.Equal(t, "This is a test post content", post.Content)
	})

	t.Run("update post", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, 1, models.NewPostForm("Updated Title", "Updated content"))
		require.NoError(t, err)

		updated, err := service.GetPost(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.Equal(t, "Updated content", updated.Content)
	})

	t.Run("update missing post", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, 42, models.NewPostForm("Title", "Content"))
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("delete post", func(t *testing.T) {
		post, err := service.CreatePost(ctx, models.NewPostForm("Post to Delete", "This post will be deleted"))
		require.NoError(t, err)

		require.NoError(t, service.DeletePost(ctx, post.ID))

		_, err = service.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.ErrorIs(t, service.DeletePost(ctx, post.ID), repositories.ErrNotFound)
	})

	t.Run("list posts", func(t *testing.T) {
		service := NewPostService(repositories.NewMemoryPostRepository(repositories.IDSequence))
		for i := 0; i < 5; i++ {
			_, err := service.CreatePost(ctx, models.NewPostForm("List Test Post", "Content for list test"))
			require.NoError(t, err)
		}

		posts, err := service.ListPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 5)

		count, err := service.CountPosts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("validation errors", func(t *testing.T) {
		title := "Valid Title"
		content := "Valid content"

		t.Run("missing title", func(t *testing.T) {
			_, err := service.CreatePost(ctx, models.PostForm{Content: &content})
			assert.ErrorIs(t, err, ErrInvalidPost)
			assert.EqualError(t, err, "invalid post: missing title")
		})

		t.Run("missing content", func(t *testing.T) {
			_, err := service.CreatePost(ctx, models.PostForm{Title: &title})
			assert.ErrorIs(t, err, ErrInvalidPost)
		})

		t.Run("missing fields on update", func(t *testing.T) {
			_, err := service.UpdatePost(ctx, 1, models.PostForm{})
			assert.ErrorIs(t, err, ErrInvalidPost)
			assert.EqualError(t, err, "invalid post: missing title, content")
		})

		t.Run("empty fields are accepted", func(t *testing.T) {
			_, err := service.CreatePost(ctx, models.NewPostForm("", ""))
			assert.NoError(t, err)
		})
	})

	t.Run("repository errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		service := NewPostService(&failingRepo{err: boom})

		_, err := service.CreatePost(ctx, models.NewPostForm("a", "b"))
		assert.ErrorIs(t, err, boom)

		_, err = service.ListPosts(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostServiceSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	service := NewPostService(repositories.NewMemoryPostRepository(repositories.IDSequence))
	service.tracer = tp.Tracer(tracerName)
	ctx := context.Background()

	_, err := service.CreatePost(ctx, models.NewPostForm("Traced", "Body"))
	require.NoError(t, err)
	_, err = service.GetPost(ctx, 99)
	require.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = service.CreatePost(ctx, models.PostForm{})
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "PostService.CreatePost", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, "PostService.GetPost", spans[1].Name)
	assert.Equal(t, codes.Unset, spans[1].Status.Code, "not found is not a span error")
	assert.Equal(t, codes.Error, spans[2].Status.Code)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	svc := NewPostService(repositories.NewMemoryPostRepository(repositories.IDSequence))
	got, ok := FromContext(NewContext(context.Background(), svc))
	assert.True(t, ok)
	assert.Same(t, svc, got)

	_, ok = FromContext(NewContext(context.Background(), nil))
	assert.False(t, ok)
}
