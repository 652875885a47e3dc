package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/service"
	"github.com/Dan9191/quillpost/internal/session"
	"github.com/gorilla/mux"
)

type walletForm struct {
	Label    string
	Currency models.Currency
	Address  string
}

// Account sends the user to their profile
func (h *Handler) Account(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// Blogs lists posts in the account area with edit controls on owned ones
func (h *Handler) Blogs(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	posts, err := h.svc.ListPosts(r.Context(), ident)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "blogs", "Blogs", posts)
}

// Profile shows username, bio and follower count
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	p, err := h.svc.Profile(r.Context(), ident.UserID())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "profile", p.Username, p)
}

// BioForm shows the bio editor
func (h *Handler) BioForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	h.render(w, r, http.StatusOK, "bio", "Edit Bio", ident.User.Bio)
}

// UpdateBio stores the submitted bio
func (h *Handler) UpdateBio(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	if err := h.svc.UpdateBio(r.Context(), ident.UserID(), r.PostFormValue("bio")); err != nil {
		if isUserError(err) {
			h.redirectWithFlash(w, r, "/profile/bio", service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// Monetization shows the stored donation addresses
func (h *Handler) Monetization(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	wallet, err := h.svc.Wallet(r.Context(), ident.UserID())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "monetization", "Monetization", wallet)
}

// WalletForm shows the address form for one currency
func (h *Handler) WalletForm(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	currency, ok := service.ParseCurrency(mux.Vars(r)["currency"])
	if !ok {
		h.fail(w, r, service.ErrNotFound)
		return
	}
	wallet, err := h.svc.Wallet(r.Context(), ident.UserID())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	label := strings.ToUpper(string(currency))
	h.render(w, r, http.StatusOK, "wallet", label, walletForm{
		Label:    label,
		Currency: currency,
		Address:  wallet.Address(currency),
	})
}

// UpdateWallet stores the submitted address
func (h *Handler) UpdateWallet(w http.ResponseWriter, r *http.Request, ident session.Identity) {
	currency, ok := service.ParseCurrency(mux.Vars(r)["currency"])
	if !ok {
		h.fail(w, r, service.ErrNotFound)
		return
	}
	if err := h.svc.UpsertWallet(r.Context(), ident.UserID(), currency, r.PostFormValue("address")); err != nil {
		if isUserError(err) {
			h.redirectWithFlash(w, r, "/"+string(currency), service.Message(err))
			return
		}
		h.fail(w, r, err)
		return
	}
	h.redirectWithFlash(w, r, "/monetization", strings.ToUpper(string(currency))+" address saved.")
}
