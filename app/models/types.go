package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a blog post.
type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostForm carries the submitted title and content of a post.
// A nil field was not submitted; an empty string was.
type PostForm struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}
