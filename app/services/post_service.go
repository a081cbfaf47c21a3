package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rawblog/app/models"
	"rawblog/app/repositories"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidPost is returned when a submitted form lacks a required field
var ErrInvalidPost = errors.New("invalid post")

const tracerName = "rawblog/app/services"

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	tracer   trace.Tracer
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		tracer:   otel.Tracer(tracerName),
	}
}

// CreatePost stores a new post built from the form and returns it
func (s *PostService) CreatePost(ctx context.Context, form models.PostForm) (post *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "PostService.CreatePost")
	defer func() { endSpan(span, err) }()

	post = &models.Post{}
	if err := form.Apply(post); err != nil {
		return nil, invalidForm(form)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	span.SetAttributes(attribute.Int("post.id", post.ID))
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id int) (post *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "PostService.GetPost", trace.WithAttributes(attribute.Int("post.id", id)))
	defer func() { endSpan(span, err) }()

	return s.postRepo.GetByID(ctx, id)
}

// ListPosts retrieves every post in ID order
func (s *PostService) ListPosts(ctx context.Context) (posts []*models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "PostService.ListPosts")
	defer func() { endSpan(span, err) }()

	posts, err = s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	span.SetAttributes(attribute.Int("post.count", len(posts)))
	return posts, nil
}

// UpdatePost replaces the title and content of an existing post
func (s *PostService) UpdatePost(ctx context.Context, id int, form models.PostForm) (post *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "PostService.UpdatePost", trace.WithAttributes(attribute.Int("post.id", id)))
	defer func() { endSpan(span, err) }()

	post = &models.Post{ID: id}
	if err := form.Apply(post); err != nil {
		return nil, invalidForm(form)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post
func (s *PostService) DeletePost(ctx context.Context, id int) (err error) {
	ctx, span := s.tracer.Start(ctx, "PostService.DeletePost", trace.WithAttributes(attribute.Int("post.id", id)))
	defer func() { endSpan(span, err) }()

	return s.postRepo.Delete(ctx, id)
}

// CountPosts returns the number of stored posts
func (s *PostService) CountPosts(ctx context.Context) (int, error) {
	return s.postRepo.Count(ctx)
}

// invalidForm reports which fields a rejected form lacks
func invalidForm(form models.PostForm) error {
	return fmt.Errorf("%w: missing %s", ErrInvalidPost, strings.Join(form.MissingFields(), ", "))
}

// endSpan records err on the span, treating not-found as a normal outcome
func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
