package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/auth"
	"github.com/ristorante/site/internal/document/service"
	"github.com/ristorante/site/internal/editor"
	"github.com/ristorante/site/internal/gateway"
	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/internal/sessions"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/internal/tokens"
	"github.com/ristorante/site/internal/translations"
	"github.com/ristorante/site/pkg/middleware"
	"github.com/stretchr/testify/require"
)

const testSecret = "handlers-test-secret-0123456789abcdef"

var testCreds = auth.Credentials{Username: "admin", Password: "password123"}

type site struct {
	router       *gin.Engine
	content      *store.Store
	translations *translations.Store
	notices      *notify.Recorder
	issuer       *tokens.Issuer
	sessions     *sessions.Service
	svc          service.Service
}

// newSite wires the stores, editor and handlers the way main does, on an
// in-memory persistence service.
func newSite(t *testing.T, bl *sessions.Blacklist, media MediaStore) *site {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewMemoryService()
	local := gateway.NewLocal(svc)
	rec := notify.NewRecorder(20)
	cs := store.New(local, rec)
	ts := translations.NewStore(local, rec)
	t.Cleanup(func() {
		cs.Wait()
		ts.Wait()
	})

	s := &site{
		router:       gin.New(),
		content:      cs,
		translations: ts,
		notices:      rec,
		issuer:       tokens.NewIssuer(testSecret, 15*time.Minute),
		sessions:     sessions.NewService(sessions.NewMemoryRepository(), time.Hour),
		svc:          svc,
	}
	NewAuthHandler(testCreds, s.issuer, s.sessions, bl).Register(s.router)
	NewPagesHandler(cs, ts).Register(s.router)
	mh := NewMediaHandler(media)
	mh.RegisterPublic(s.router)

	protected := s.router.Group("/", middleware.AuthMiddleware(bl, s.issuer))
	NewAdminHandler(editor.New(cs, ts), cs, ts, rec).Register(protected)
	mh.RegisterAdmin(protected)
	return s
}

func (s *site) token(t *testing.T) string {
	t.Helper()
	raw, _, err := s.issuer.Issue("admin")
	require.NoError(t, err)
	return raw
}

func (s *site) wait() {
	s.content.Wait()
	s.translations.Wait()
}

// do sends a JSON request; token may be empty.
func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}
