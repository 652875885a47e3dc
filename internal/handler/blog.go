package handler

import (
	"errors"
	"net/http"

	"github.com/Dan9191/quillpost/internal/service"
	"github.com/Dan9191/quillpost/internal/session"
)

type postForm struct {
	Title string
	Body  string
}

// formBody reads the post body; rich text editors submit it as hiddenBody
func formBody(r *http.Request) string {
	if body := r.PostFormValue("body"); body != "" {
		return body
	}
	return r.PostFormValue("hiddenBody")
}

// Index lists every post, newest first
func (h *Handler) Index(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	posts, err := h.svc.ListPosts(r.Context(), ident)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index", "", posts)
}

// ShowPost is the public single-post view
func (h *Handler) ShowPost(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	id, ok := postID(r)
	if !ok {
		h.fail(w, r, service.ErrNotFound)
		return
	}
	post, err := h.svc.LoadPost(r.Context(), id, ident, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "post", post.Title, service.Render(*post, ident))
}

// Feed serves the Atom feed
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Feed(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to build feed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Write(out)
}

// CreateForm shows the new post form
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	h.render(w, r, http.StatusOK, "create", "New Post", postForm{})
}

// Create stores a new post
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	form := postForm{Title: r.PostFormValue("title"), Body: formBody(r)}
	if _, err := h.svc.CreatePost(r.Context(), ident, form.Title, form.Body); err != nil {
		if isUserError(err) {
			h.render(w, r, http.StatusOK, "create", "New Post", form, service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// EditForm shows the edit form to the post's author only
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	id, ok := postID(r)
	if !ok {
		h.fail(w, r, service.ErrNotFound)
		return
	}
	post, err := h.svc.LoadPost(r.Context(), id, ident, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "edit", "Edit", service.Render(*post, ident))
}

// Edit saves a post. An empty title re-renders the form without saving.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	id, ok := postID(r)
	if !ok {
		h.fail(w, r, service.ErrNotFound)
		return
	}
	title, body := r.PostFormValue("title"), formBody(r)

	err := h.svc.UpdatePost(r.Context(), id, ident, title, body)
	if errors.Is(err, service.ErrValidation) {
		post, loadErr := h.svc.LoadPost(r.Context(), id, ident, true)
		if loadErr != nil {
			h.fail(w, r, loadErr)
			return
		}
		post.Title, post.Body = title, body
		h.render(w, r, http.StatusOK, "edit", "Edit", service.Render(*post, ident), service.Message(err))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/blogs", http.StatusFound)
}

// Delete removes a post owned by the current user
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	id, ok := postID(r)
	if !ok {
		h.fail(w, r, service.ErrNotFound)
		return
	}
	if err := h.svc.DeletePost(r.Context(), id, ident); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/blogs", http.StatusFound)
}
