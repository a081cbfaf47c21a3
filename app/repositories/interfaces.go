package repositories

import (
	"context"

	"rawblog/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create assigns the post an ID and stores it
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	// List returns every post in ascending ID order
	List(ctx context.Context) ([]*models.Post, error)
	// Update replaces the title and content of an existing post
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	Close() error
}
