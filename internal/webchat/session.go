package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/wakelyai/webchat/internal/branding"
	"github.com/wakelyai/webchat/internal/chat"
	"github.com/wakelyai/webchat/internal/i18n"
	"github.com/wakelyai/webchat/internal/menu"
	"github.com/wakelyai/webchat/internal/order"
	"github.com/wakelyai/webchat/internal/org"
	"github.com/wakelyai/webchat/internal/storage"
	"github.com/wakelyai/webchat/internal/suggest"
)

// Session is the root context of one widget instance: every piece of mutable
// state (organization, brand, language, transcript, order snapshot, menu
// cache, suggestion flag) hangs off it and is reached explicitly, never
// through ambient globals.
type Session struct {
	ID           string
	Organization *org.Organization
	Degraded     bool

	Brand       *branding.Brand
	Translator  *i18n.Translator
	Catalog     *menu.Catalog
	Suggestions *suggest.Engine
	KV          storage.Store
	Controller  *chat.Controller

	CreatedAt time.Time

	// rev increments on state changes that require a full re-render, such
	// as a language switch. Clients compare it against their last seen one.
	rev atomic.Int64
}

// SessionDeps carries the service-level collaborators shared by all
// sessions.
type SessionDeps struct {
	Orgs      org.Client
	Webhook   chat.Webhook
	Receipts  order.ReceiptRepo
	Publisher events.Publisher
	Logger    apt.Logger
}

// NewSession bootstraps a session for an organization slug. A backend 404
// propagates org.ErrNotFound so the caller can render the dedicated
// not-found page; any other organization failure degrades to a generic
// identity with the fallback greeting instead of failing the session.
// A non-empty resumeID revives the caller's previous session identifier and
// restores its last confirmed order, if one is still valid.
func NewSession(ctx context.Context, slug, browserLocale, resumeID string, deps SessionDeps) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	sessionID := resumeID
	if sessionID == "" {
		sessionID = storage.NewSessionID()
	}

	kv := storage.NewMemoryStore()
	kv.Set(storage.KeySessionID, sessionID)

	tr := i18n.NewTranslator(kv, browserLocale, logger)

	s := &Session{
		ID:         sessionID,
		Translator: tr,
		Catalog:    menu.NewCatalog(logger),
		KV:         kv,
		CreatedAt:  time.Now().UTC(),
	}
	tr.OnChange(func(i18n.Language) { s.rev.Add(1) })

	organization, err := deps.Orgs.FetchOrganization(ctx, slug)
	switch {
	case errors.Is(err, org.ErrNotFound):
		return nil, err
	case err != nil:
		logger.Errorf("Organization fetch failed for slug %s: %v", slug, err)
		s.Degraded = true
	default:
		s.Organization = organization
	}

	var assets *org.BrandAssets
	var orgID, whatsapp string
	if s.Organization != nil {
		assets = s.Organization.BrandAssets
		orgID = s.Organization.ID
		whatsapp = s.Organization.WhatsappNumber
	}
	s.Brand = branding.Resolve(assets)
	s.Suggestions = suggest.NewEngine(s.Organization, kv)

	s.Controller = chat.NewController(sessionID, orgID, whatsapp, chat.ControllerDeps{
		Translator: tr,
		Webhook:    deps.Webhook,
		Receipts:   deps.Receipts,
		KV:         kv,
		Publisher:  deps.Publisher,
	}, logger)

	if s.Organization != nil {
		s.Catalog.Load(ctx, deps.Orgs, s.Organization.ID)
		s.Controller.Transcript().Append(chat.RoleBot, tr.T("welcome", s.Organization.Name))
	} else {
		s.Controller.Transcript().Append(chat.RoleBot, tr.T("welcomeFallback"))
	}

	if resumeID != "" {
		s.restoreLastOrder(ctx, deps.Receipts, logger)
	}

	return s, nil
}

// restoreLastOrder loads the caller's last confirmed receipt into the
// session's last-order slot. Best effort; a miss or error leaves the slot
// empty.
func (s *Session) restoreLastOrder(ctx context.Context, receipts order.ReceiptRepo, logger apt.Logger) {
	if receipts == nil {
		return
	}
	receipt, err := receipts.GetBySession(ctx, s.ID)
	if err != nil {
		logger.Infof("Cannot restore last order for session %s: %v", s.ID, err)
		return
	}
	if receipt == nil || receipt.Expired(time.Now().UTC()) {
		return
	}
	if raw, err := json.Marshal(receipt); err == nil {
		s.KV.Set(storage.KeyLastOrder, string(raw))
	}
}

// DisplayName is the organization name, or the generic service name when the
// session is degraded.
func (s *Session) DisplayName() string {
	if s.Organization != nil {
		return s.Organization.Name
	}
	return s.Translator.T("chatService")
}

// SetLanguage switches the session language. Unsupported codes are ignored
// by the translator.
func (s *Session) SetLanguage(lang i18n.Language) {
	s.Translator.SetLanguage(lang)
}

// Revision returns the current re-render revision.
func (s *Session) Revision() int64 {
	return s.rev.Load()
}

// SelectItem bridges the menu and the chat: selecting an item yields a
// pre-filled localized draft and closes the menu view.
func (s *Session) SelectItem(name string) (string, bool) {
	item, ok := s.Catalog.Find(name)
	if !ok {
		return "", false
	}
	return menu.DraftFor(s.Translator, item), true
}

// InjectTestConfirmation appends a synthetic order-confirmation message.
// Local verification hook behind the bootstrap test flag; never reachable
// otherwise.
func (s *Session) InjectTestConfirmation() {
	s.Controller.Transcript().AppendConfirmation("Test confirmation message", &chat.OrderData{
		OrderReference: "TEST12345",
		CustomerName:   "Ahmad Test",
		TotalAmount:    99,
		Language:       string(i18n.Arabic),
	})
}
