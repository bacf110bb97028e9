package webchat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/wakelyai/webchat/internal/chat"
	"github.com/wakelyai/webchat/internal/i18n"
	"github.com/wakelyai/webchat/internal/org"
)

const MaxBodyBytes = 64 << 10 // 64 KB; chat turns are short

// Handler exposes the widget gateway API.
type Handler struct {
	registry *Registry
	deps     SessionDeps
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

// NewHandler creates a new Handler for webchat sessions.
func NewHandler(registry *Registry, deps SessionDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	deps.Logger = logger
	return &Handler{
		registry: registry,
		deps:     deps,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the webchat gateway.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/webchat", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/messages", h.SendMessage)
			r.Put("/language", h.SetLanguage)
			r.Post("/suggestions/dismiss", h.DismissSuggestions)
			r.Get("/menu", h.GetMenu)
			r.Post("/menu/draft", h.DraftFromMenu)
			r.Get("/order", h.GetOrder)
			r.Post("/branding/logo-failed", h.LogoFailed)
		})
	})
}

type createSessionPayload struct {
	Slug          string `json:"slug"`
	BrowserLocale string `json:"browser_locale,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
}

// CreateSession handles POST /webchat/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateSession")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		log.Debug("cannot read body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Cannot read request body")
		return
	}

	var payload createSessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Debug("invalid payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Slug == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing organization slug")
		return
	}

	session, err := NewSession(ctx, payload.Slug, payload.BrowserLocale, payload.SessionID, h.deps)
	if errors.Is(err, org.ErrNotFound) {
		log.Debug("unknown organization slug", "slug", payload.Slug)
		apt.RespondError(w, http.StatusNotFound, "Organization not found")
		return
	}
	if err != nil {
		log.Error("cannot create session", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create session")
		return
	}

	// Local verification hook: inject a synthetic confirmation card.
	if r.URL.Query().Get("test") == "order" {
		log.Info("test mode: injecting synthetic order confirmation", "session_id", session.ID)
		session.InjectTestConfirmation()
	}

	h.registry.Add(session)

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, session.View())
}

// GetSession handles GET /webchat/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	apt.RespondSuccess(w, session.View())
}

type sendMessagePayload struct {
	Message string `json:"message"`
}

// SendMessage handles POST /webchat/sessions/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SendMessage")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload sendMessagePayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&payload); err != nil {
		log.Debug("invalid payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Message == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing message")
		return
	}

	if _, err := session.Controller.Send(ctx, payload.Message); err != nil {
		if errors.Is(err, chat.ErrSendInFlight) {
			apt.RespondError(w, http.StatusConflict, "A message is already being sent")
			return
		}
		log.Error("send failed", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not send message")
		return
	}

	apt.RespondSuccess(w, session.View())
}

type setLanguagePayload struct {
	Language string `json:"language"`
}

// SetLanguage handles PUT /webchat/sessions/{id}/language
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetLanguage")
	defer finish()
	log := h.log(r)

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload setLanguagePayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&payload); err != nil {
		log.Debug("invalid payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	lang := i18n.Language(payload.Language)
	if !i18n.Supported(lang) {
		apt.RespondError(w, http.StatusBadRequest, "Unsupported language")
		return
	}

	session.SetLanguage(lang)
	apt.RespondSuccess(w, session.View())
}

// DismissSuggestions handles POST /webchat/sessions/{id}/suggestions/dismiss
func (h *Handler) DismissSuggestions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DismissSuggestions")
	defer finish()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Suggestions.Dismiss()
	apt.RespondSuccess(w, session.View())
}

// GetMenu handles GET /webchat/sessions/{id}/menu
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")
	apt.RespondSuccess(w, session.MenuView(category, query))
}

type draftPayload struct {
	Name string `json:"name"`
}

type draftResponse struct {
	Draft     string `json:"draft"`
	CloseMenu bool   `json:"close_menu"`
}

// DraftFromMenu handles POST /webchat/sessions/{id}/menu/draft
func (h *Handler) DraftFromMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DraftFromMenu")
	defer finish()
	log := h.log(r)

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload draftPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&payload); err != nil {
		log.Debug("invalid payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	draft, found := session.SelectItem(payload.Name)
	if !found {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	apt.RespondSuccess(w, draftResponse{Draft: draft, CloseMenu: true})
}

// GetOrder handles GET /webchat/sessions/{id}/order
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	apt.RespondSuccess(w, session.orderView())
}

// LogoFailed handles POST /webchat/sessions/{id}/branding/logo-failed. The
// widget reports a logo image load failure; the view falls back to the text
// name.
func (h *Handler) LogoFailed(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.LogoFailed")
	defer finish()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Brand.LogoFailed()
	apt.RespondSuccess(w, session.View())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing session id")
		return nil, false
	}
	session, ok := h.registry.Lookup(id)
	if !ok {
		apt.RespondError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}
