package webchat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"

	"github.com/wakelyai/webchat/internal/chat"
)

func newTestRouter(t *testing.T, deps SessionDeps) (chi.Router, *Registry) {
	t.Helper()
	registry := NewRegistry()
	h := NewHandler(registry, deps, apt.NewConfig(), apt.NewNoopLogger())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, registry
}

func doJSON(t *testing.T, r chi.Router, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("cannot encode payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v (%s)", err, w.Body.String())
	}
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response does not contain data object: %s", w.Body.String())
	}
	return data
}

func createTestSession(t *testing.T, r chi.Router) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/webchat/sessions", map[string]string{
		"slug":           "karak-house",
		"browser_locale": "en-US",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateSession status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	data := decodeData(t, w)
	id, _ := data["session_id"].(string)
	if id == "" {
		t.Fatal("created session has no session_id")
	}
	return id
}

func TestHandlerCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		payload        any
		rawBody        string
		expectedStatus int
	}{
		{
			name:           "success",
			payload:        map[string]string{"slug": "karak-house"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknownSlug",
			payload:        map[string]string{"slug": "no-such-org"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missingSlug",
			payload:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalidBody",
			rawBody:        "{not-json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, testDeps())

			var w *httptest.ResponseRecorder
			if tt.rawBody != "" {
				req := httptest.NewRequest(http.MethodPost, "/webchat/sessions", bytes.NewReader([]byte(tt.rawBody)))
				w = httptest.NewRecorder()
				r.ServeHTTP(w, req)
			} else {
				w = doJSON(t, r, http.MethodPost, "/webchat/sessions", tt.payload)
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestHandlerCreateSessionRegisters(t *testing.T) {
	r, registry := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	if _, ok := registry.Lookup(id); !ok {
		t.Error("created session not registered")
	}
}

func TestHandlerCreateSessionTestMode(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions?test=order", map[string]string{"slug": "karak-house"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	messages, _ := data["messages"].([]interface{})
	if len(messages) == 0 {
		t.Fatal("no messages in view")
	}
	last, _ := messages[len(messages)-1].(map[string]interface{})
	orderData, ok := last["order_data"].(map[string]interface{})
	if !ok {
		t.Fatalf("last message carries no order data: %v", last)
	}
	if orderData["orderReference"] != "TEST12345" {
		t.Errorf("orderReference = %v", orderData["orderReference"])
	}
}

func TestHandlerGetSession(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodGet, "/webchat/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	if data["org_name"] != "Karak House" {
		t.Errorf("org_name = %v", data["org_name"])
	}
}

func TestHandlerGetSessionNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())

	w := doJSON(t, r, http.MethodGet, "/webchat/sessions/web_0_missing00", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandlerSendMessage(t *testing.T) {
	deps := testDeps()
	webhook := NewMockWebhook()
	webhook.SendFunc = func(ctx context.Context, envelope chat.Envelope) (*chat.Reply, error) {
		return &chat.Reply{BotReply: "We open at 8am."}, nil
	}
	deps.Webhook = webhook

	r, _ := newTestRouter(t, deps)
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/messages", map[string]string{"message": "When do you open?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	messages, _ := data["messages"].([]interface{})
	// Welcome, user message, bot reply.
	if len(messages) != 3 {
		t.Fatalf("view has %d messages, want 3", len(messages))
	}
	last, _ := messages[2].(map[string]interface{})
	if last["text"] != "We open at 8am." {
		t.Errorf("last message = %v", last["text"])
	}
}

func TestHandlerSendMessageEmpty(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/messages", map[string]string{"message": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerSendMessageConflict(t *testing.T) {
	deps := testDeps()
	release := make(chan struct{})
	started := make(chan struct{})
	webhook := NewMockWebhook()
	webhook.SendFunc = func(ctx context.Context, envelope chat.Envelope) (*chat.Reply, error) {
		close(started)
		<-release
		return &chat.Reply{BotReply: "done"}, nil
	}
	deps.Webhook = webhook

	r, _ := newTestRouter(t, deps)
	id := createTestSession(t, r)

	done := make(chan struct{})
	go func() {
		defer close(done)
		doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/messages", map[string]string{"message": "first"})
	}()

	<-started
	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/messages", map[string]string{"message": "second"})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}

	close(release)
	<-done
}

func TestHandlerSetLanguage(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPut, "/webchat/sessions/"+id+"/language", map[string]string{"language": "ar"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["language"] != "ar" {
		t.Errorf("language = %v", data["language"])
	}
	if data["rtl"] != true {
		t.Errorf("rtl = %v", data["rtl"])
	}
}

func TestHandlerSetLanguageUnsupported(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPut, "/webchat/sessions/"+id+"/language", map[string]string{"language": "fr"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerDismissSuggestions(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/suggestions/dismiss", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	chips, ok := data["suggestions"].(map[string]interface{})
	if !ok {
		t.Fatalf("no suggestions in view: %s", w.Body.String())
	}
	if chips["show"] != false {
		t.Errorf("show = %v after dismissal", chips["show"])
	}
}

func TestHandlerGetMenu(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodGet, "/webchat/sessions/"+id+"/menu?category=drinks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	items, _ := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("drinks filter returned %d items, want 1", len(items))
	}
	item, _ := items[0].(map[string]interface{})
	if item["name"] != "Karak Tea" {
		t.Errorf("item = %v", item["name"])
	}
}

func TestHandlerDraftFromMenu(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/menu/draft", map[string]string{"name": "Karak Tea"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["draft"] != "Tell me about Karak Tea" {
		t.Errorf("draft = %v", data["draft"])
	}
	if data["close_menu"] != true {
		t.Errorf("close_menu = %v", data["close_menu"])
	}
}

func TestHandlerDraftFromMenuUnknownItem(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/menu/draft", map[string]string{"name": "Pizza"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandlerGetOrder(t *testing.T) {
	r, registry := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodGet, "/webchat/sessions/"+id+"/order", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	if data["visible"] != false {
		t.Errorf("visible = %v without an order", data["visible"])
	}

	session, _ := registry.Lookup(id)
	session.Controller.OrderStore().Replace(orderStateWith("Karak Tea", 2, 8))

	w = doJSON(t, r, http.MethodGet, "/webchat/sessions/"+id+"/order", nil)
	data = decodeData(t, w)
	if data["visible"] != true {
		t.Errorf("visible = %v with an order", data["visible"])
	}
	if data["item_count"] != float64(2) || data["total"] != float64(16) {
		t.Errorf("figures = count %v total %v", data["item_count"], data["total"])
	}
}

func TestHandlerLogoFailed(t *testing.T) {
	r, _ := newTestRouter(t, testDeps())
	id := createTestSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/webchat/sessions/"+id+"/branding/logo-failed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	brandingView, _ := data["branding"].(map[string]interface{})
	if brandingView["show_logo"] != false {
		t.Errorf("show_logo = %v after failure report", brandingView["show_logo"])
	}
	if brandingView["show_name"] != true {
		t.Errorf("show_name = %v after failure report", brandingView["show_name"])
	}
}
