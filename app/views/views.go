// Package views renders the HTML fragments served by the blog.
package views

import (
	"encoding/hex"
	"fmt"
	"html"
	"strings"

	"rawblog/app/models"

	"golang.org/x/crypto/sha3"
)

const createForm = `
        <form action="/create" method="post">
            <label for="title">Title:</label><br>
            <input type="text" id="title" name="title" required><br>
            <label for="content">Content:</label><br>
            <textarea id="content" name="content" required></textarea><br>
            <input type="submit" value="Submit">
        </form>
    `

const editForm = `
            <h1>Edit Post</h1>
            <form action="/post/%d/update" method="post">
                <label for="title">Title:</label><br>
                <input type="text" id="title" name="title" value="%s" required><br>
                <label for="content">Content:</label><br>
                <textarea id="content" name="content" required>%s</textarea><br>
                <input type="submit" value="Update">
            </form>
            `

// Renderer produces the HTML fragments. Post titles and contents are
// written verbatim unless escape is set, so markup in them reaches the page.
type Renderer struct {
	escape bool
}

// NewRenderer creates a Renderer. With escape set, user text is HTML-escaped.
func NewRenderer(escape bool) *Renderer {
	return &Renderer{escape: escape}
}

func (r *Renderer) text(s string) string {
	if r.escape {
		return html.EscapeString(s)
	}
	return s
}

// Index renders the post listing followed by the create form
func (r *Renderer) Index(posts []*models.Post) string {
	var b strings.Builder
	b.WriteString("<h1>Blog Posts</h1>")
	for _, post := range posts {
		fmt.Fprintf(&b,
			`<h2>%s</h2><p>%s</p><a href="/post/%d/edit">Edit</a> | <a href="/post/%d/delete">Delete</a><hr>`,
			r.text(post.Title), r.text(post.Content), post.ID, post.ID)
	}
	if len(posts) == 0 {
		b.WriteString("<h3>No posts available.</h3>")
	}
	b.WriteString(createForm)
	return b.String()
}

// Post renders a single post
func (r *Renderer) Post(post *models.Post) string {
	return fmt.Sprintf("<h1>%s</h1><p>%s</p>", r.text(post.Title), r.text(post.Content))
}

// Edit renders the edit form prefilled with the post
func (r *Renderer) Edit(post *models.Post) string {
	return fmt.Sprintf(editForm, post.ID, r.text(post.Title), r.text(post.Content))
}

func Created(id int) string {
	return fmt.Sprintf("Post created with ID: %d", id)
}

func Updated(id int) string {
	return fmt.Sprintf("Post updated with ID: %d", id)
}

func Deleted(id int) string {
	return fmt.Sprintf("Post with ID: %d has been deleted.", id)
}

// ETag returns a strong entity tag for body
func ETag(body []byte) string {
	sum := sha3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
