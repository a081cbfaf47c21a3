package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"rawblog/app/models"
	"rawblog/app/repositories"
	"rawblog/app/services"
	"rawblog/app/views"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts. The post service is
// taken from the request context on every call.
type PostController struct {
	views *views.Renderer
}

// NewPostController creates a new PostController
func NewPostController(renderer *views.Renderer) *PostController {
	if renderer == nil {
		renderer = views.NewRenderer(false)
	}
	return &PostController{views: renderer}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}

	posts, err := svc.ListPosts(r.Context())
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendPage(w, r, pc.views.Index(posts))
}

// Create handles creating a new post from a submitted form
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := svc.CreatePost(r.Context(), models.PostFormFromValues(r.PostForm))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendHTML(w, r, http.StatusOK, views.Created(post.ID))
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	pc.sendPage(w, r, pc.views.Post(post))
}

// Edit displays the edit form of a post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	pc.sendPage(w, r, pc.views.Edit(post))
}

// Update handles replacing the title and content of a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := svc.UpdatePost(r.Context(), id, models.PostFormFromValues(r.PostForm)); err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendHTML(w, r, http.StatusOK, views.Updated(id))
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	if err := svc.DeletePost(r.Context(), id); err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendHTML(w, r, http.StatusOK, views.Deleted(id))
}

// Helper methods for consistent response handling

func (pc *PostController) service(w http.ResponseWriter, r *http.Request) (*services.PostService, bool) {
	svc, ok := services.FromContext(r.Context())
	if !ok {
		log.Printf("[controllers] no post service in request context for %s %s", r.Method, r.URL.Path)
		pc.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return svc, true
}

// postID parses the {id} route variable. IDs that do not fit an int are
// treated as unknown posts.
func (pc *PostController) postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (pc *PostController) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	svc, ok := pc.service(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pc.postID(w, r)
	if !ok {
		return nil, false
	}

	post, err := svc.GetPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return nil, false
	}
	return post, true
}

func (pc *PostController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidPost):
		pc.sendError(w, r, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Printf("[controllers] %s %s: %v", r.Method, r.URL.Path, err)
		pc.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
	}
}

// sendPage writes a read-only HTML page with an ETag, honouring If-None-Match
func (pc *PostController) sendPage(w http.ResponseWriter, r *http.Request, body string) {
	etag := views.ETag([]byte(body))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	pc.sendHTML(w, r, http.StatusOK, body)
}

// sendHTML writes an HTML fragment
func (pc *PostController) sendHTML(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// sendJSON writes data as JSON. API routes get their Content-Type from the
// ContentTypeJSON middleware; other callers get it here.
func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[controllers] failed to encode response: %v", err)
	}
}

func (pc *PostController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if isAPIRequest(r) {
		pc.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

func isAPIRequest(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api/")
}
