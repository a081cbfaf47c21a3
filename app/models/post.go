package models

import (
	"errors"
	"net/url"
)

// PostFormFromValues builds a form from submitted form values.
// Only the first value of each field is used.
func PostFormFromValues(values url.Values) PostForm {
	var form PostForm
	if v, ok := values["title"]; ok && len(v) > 0 {
		form.Title = &v[0]
	}
	if v, ok := values["content"]; ok && len(v) > 0 {
		form.Content = &v[0]
	}
	return form
}

// NewPostForm returns a form with both fields present
func NewPostForm(title, content string) PostForm {
	return PostForm{Title: &title, Content: &content}
}

// Validate checks that both title and content were submitted
func (f *PostForm) Validate() error {
	return validate.Struct(f)
}

// Apply copies the form fields into the post
func (f *PostForm) Apply(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	if err := f.Validate(); err != nil {
		return err
	}

	post.Title = *f.Title
	post.Content = *f.Content
	return nil
}

// MissingFields lists the names of the fields that were not submitted
func (f *PostForm) MissingFields() []string {
	var missing []string
	if f.Title == nil {
		missing = append(missing, "title")
	}
	if f.Content == nil {
		missing = append(missing, "content")
	}
	return missing
}
