package controllers

import (
	"encoding/json"
	"net/http"

	"rawblog/app/models"
)

// APIIndex lists all posts as JSON
func (pc *PostController) APIIndex(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}

	posts, err := svc.ListPosts(r.Context())
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"count": len(posts),
	})
}

// APIShow returns one post as JSON
func (pc *PostController) APIShow(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// APICreate creates a post from a JSON body
func (pc *PostController) APICreate(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}

	form, ok := pc.decodeForm(w, r)
	if !ok {
		return
	}

	post, err := svc.CreatePost(r.Context(), form)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, post)
}

// APIUpdate replaces a post from a JSON body
func (pc *PostController) APIUpdate(w http.ResponseWriter, r *http.Request) {
	svc, ok := pc.service(w, r)
	if !ok {
		return
	}
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	form, ok := pc.decodeForm(w, r)
	if !ok {
		return
	}

	post, err := svc.UpdatePost(r.Context(), id, form)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// APIDelete deletes a post
func (pc *PostController) APIDelete(w http.ResponseWriter, r *http.Request) {
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
	w.WriteHeader(http.StatusNoContent)
}

func (pc *PostController) decodeForm(w http.ResponseWriter, r *http.Request) (models.PostForm, bool) {
	var form models.PostForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return form, false
	}
	return form, true
}
