package handler

import (
	"net/http"

	"github.com/Dan9191/quillpost/internal/service"
	"github.com/Dan9191/quillpost/internal/session"
)

// RegisterForm shows the registration form
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	h.render(w, r, http.StatusOK, "register", "Register", "")
}

// Register creates an account and sends the user to log in
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	username := r.PostFormValue("username")
	if _, err := h.svc.Register(r.Context(), username, r.PostFormValue("password")); err != nil {
		if isUserError(err) {
			h.render(w, r, http.StatusOK, "register", "Register", username, service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, session.LoginPath, http.StatusFound)
}

// LoginForm shows the login form
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	h.render(w, r, http.StatusOK, "login", "Log In", "")
}

// Login verifies credentials and starts a fresh session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	username := r.PostFormValue("username")
	user, err := h.svc.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if isUserError(err) {
			h.render(w, r, http.StatusOK, "login", "Log In", username, service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}
	if err := h.sessions.Establish(r.Context(), w, r, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Terminate(w, r); err != nil {
		h.log.WithError(err).Error("Failed to delete session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// ChangePasswordForm shows the password form
func (h *Handler) ChangePasswordForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	h.render(w, r, http.StatusOK, "change_password", "Change Password", nil)
}

// ChangePassword rotates the password, signs out every other session and
// issues a new token for this one
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	err := h.svc.ChangePassword(r.Context(), ident.UserID(),
		r.PostFormValue("old"), r.PostFormValue("new"), r.PostFormValue("confirmation"))
	if err != nil {
		if isUserError(err) {
			h.redirectWithFlash(w, r, "/auth/change_password", service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.TerminateAll(r.Context(), ident.UserID()); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sessions.Establish(r.Context(), w, r, ident.UserID()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirectWithFlash(w, r, "/profile", "Password changed.")
}

// ChangeUsernameForm shows the rename form
func (h *Handler) ChangeUsernameForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	h.render(w, r, http.StatusOK, "change_username", "Change Username", nil)
}

// ChangeUsername renames the current user
func (h *Handler) ChangeUsername(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	err := h.svc.ChangeUsername(r.Context(), ident.UserID(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if isUserError(err) {
			h.redirectWithFlash(w, r, "/auth/change_username", service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}
