package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/Dan9191/quillpost/internal/flash"
	"github.com/Dan9191/quillpost/internal/middleware"
	"github.com/Dan9191/quillpost/internal/service"
	"github.com/Dan9191/quillpost/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler serves the HTML interface
type Handler struct {
	svc      *service.Service
	sessions *session.Manager
	flash    *flash.Flasher
	log      *logrus.Logger
	views    map[string]*template.Template
	site     string
}

// identityHandler is a handler that receives the already resolved identity
type identityHandler func(w http.ResponseWriter, r *http.Request, ident session.Identity)

// NewHandler parses templates and builds a handler
func NewHandler(svc *service.Service, sessions *session.Manager, flasher *flash.Flasher, log *logrus.Logger, site string) (*Handler, error) {
	views, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		svc:      svc,
		sessions: sessions,
		flash:    flasher,
		log:      log,
		views:    views,
		site:     site,
	}, nil
}

// Router wires every route and the shared middleware
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log), middleware.Metrics, h.sessions.Middleware)

	// Public routes
	r.Handle("/", h.public(h.Index)).Methods(http.MethodGet)
	r.Handle("/post/{id:[0-9]+}", h.public(h.ShowPost)).Methods(http.MethodGet)
	r.HandleFunc("/feed.atom", h.Feed).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", h.public(h.RegisterForm)).Methods(http.MethodGet)
	auth.Handle("/register", h.public(h.Register)).Methods(http.MethodPost)
	auth.Handle("/login", h.public(h.LoginForm)).Methods(http.MethodGet)
	auth.Handle("/login", h.public(h.Login)).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)
	auth.Handle("/change_password", h.protected(h.ChangePasswordForm)).Methods(http.MethodGet)
	auth.Handle("/change_password", h.protected(h.ChangePassword)).Methods(http.MethodPost)
	auth.Handle("/change_username", h.protected(h.ChangeUsernameForm)).Methods(http.MethodGet)
	auth.Handle("/change_username", h.protected(h.ChangeUsername)).Methods(http.MethodPost)

	// Protected routes
	r.Handle("/create", h.protected(h.CreateForm)).Methods(http.MethodGet)
	r.Handle("/create", h.protected(h.Create)).Methods(http.MethodPost)
	r.Handle("/{id:[0-9]+}/edit", h.protected(h.EditForm)).Methods(http.MethodGet)
	r.Handle("/{id:[0-9]+}/edit", h.protected(h.Edit)).Methods(http.MethodPost)
	r.Handle("/{id:[0-9]+}/delete", h.protected(h.Delete)).Methods(http.MethodPost)
	r.Handle("/account", h.protected(h.Account)).Methods(http.MethodGet)
	r.Handle("/blogs", h.protected(h.Blogs)).Methods(http.MethodGet)
	r.Handle("/profile", h.protected(h.Profile)).Methods(http.MethodGet)
	r.Handle("/profile/bio", h.protected(h.BioForm)).Methods(http.MethodGet)
	r.Handle("/profile/bio", h.protected(h.UpdateBio)).Methods(http.MethodPost)
	r.Handle("/monetization", h.protected(h.Monetization)).Methods(http.MethodGet)
	r.Handle("/{currency:btc|xmr}", h.protected(h.WalletForm)).Methods(http.MethodGet)
	r.Handle("/{currency:btc|xmr}", h.protected(h.UpdateWallet)).Methods(http.MethodPost)

	// r.Use middleware only wraps matched routes
	var notFound http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound, "Page not found.")
	})
	notFound = h.sessions.Middleware(notFound)
	notFound = middleware.Metrics(notFound)
	r.NotFoundHandler = middleware.RequestLogger(h.log)(notFound)
	return r
}

// public passes the resolved identity, which may be anonymous
func (h *Handler) public(fn identityHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, session.FromContext(r.Context()))
	})
}

// protected runs the login gate before fn
func (h *Handler) protected(fn identityHandler) http.Handler {
	return session.RequireIdentity(h.public(fn))
}

// fail maps a service error onto a terminating response
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound, service.Message(err))
	case errors.Is(err, service.ErrForbidden):
		h.renderError(w, r, http.StatusForbidden, service.Message(err))
	default:
		h.log.WithError(err).Errorf("Request %s %s failed", r.Method, r.URL.Path)
		h.renderError(w, r, http.StatusInternalServerError, service.Message(err))
	}
}

// isUserError reports whether err carries a message meant for the form
func isUserError(err error) bool {
	return errors.Is(err, service.ErrValidation) ||
		errors.Is(err, service.ErrUnauthorized) ||
		errors.Is(err, service.ErrConflict)
}

func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// Health reports database connectivity
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		h.log.WithError(err).Error("Health check failed")
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
