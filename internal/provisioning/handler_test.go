package provisioning

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"panpanocha/internal/rate_limiter"
	"panpanocha/pkg/auditlog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type noopAuditLog struct{}

func (noopAuditLog) Log(action string, data interface{}, item auditlog.Auditable) {}

func newTestHandler(store SessionStore, secret string) *Handler {
	return &Handler{
		service:     NewService(store, zap.NewNop()),
		auditLog:    noopAuditLog{},
		secret:      secret,
		log:         zap.NewNop(),
		rateLimiter: rate_limiter.NewRateLimiter(100, time.Minute),
	}
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterPublicRoutes(router)
	return router
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPollMissingSessionIDReturns400(t *testing.T) {
	router := newTestRouter(newTestHandler(new(MockSessionStore), "secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/provision/poll", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing session_id"}`, w.Body.String())
}

func TestPollUnknownSessionReturns404(t *testing.T) {
	store := new(MockSessionStore)
	store.On("GetSession", "abc").Return(nil, ErrSessionNotFound)

	router := newTestRouter(newTestHandler(store, "secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/provision/poll?session_id=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Session not found"}`, w.Body.String())
}

func TestPollApprovedSessionReturnsCredentials(t *testing.T) {
	store := new(MockSessionStore)
	store.On("GetSession", "xyz").Return(&Session{
		ID:                 "xyz",
		Status:             StatusApproved,
		GeneratedAuthToken: strPtr("tok123"),
		AssignedBranchID:   strPtr("b1"),
		OrganizationID:     strPtr("o1"),
	}, nil)

	router := newTestRouter(newTestHandler(store, "secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/provision/poll?session_id=xyz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"approved","auth_token":"tok123","branch_id":"b1","organization_id":"o1"}`, w.Body.String())
}

func TestPollApprovedWithoutTokenReportsWaiting(t *testing.T) {
	store := new(MockSessionStore)
	store.On("GetSession", "xyz").Return(&Session{
		ID:     "xyz",
		Status: StatusApproved,
	}, nil)

	router := newTestRouter(newTestHandler(store, "secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/provision/poll?session_id=xyz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"waiting"}`, w.Body.String())
}

func TestPollRejectedSessionHidesCredentialFields(t *testing.T) {
	store := new(MockSessionStore)
	store.On("GetSession", "abc").Return(&Session{
		ID:     "abc",
		Status: StatusRejected,
	}, nil)

	router := newTestRouter(newTestHandler(store, "secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/provision/poll?session_id=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"rejected"}`, w.Body.String())
}

func TestCreateSessionReturnsSessionID(t *testing.T) {
	store := new(MockSessionStore)
	store.On("PersistSession", mock.Anything).Return(nil)

	router := newTestRouter(newTestHandler(store, "secret"))

	body, _ := json.Marshal(CreateSessionRequest{DeviceName: "Caja Centro 1"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/provision/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["session_id"], 64)
}

func TestApproveRequiresValidSignature(t *testing.T) {
	store := new(MockSessionStore)
	router := newTestRouter(newTestHandler(store, "secret"))

	body := []byte(`{"session_id":"abc","branch_id":"b1","organization_id":"o1"}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/provision/approve", bytes.NewReader(body))
	req.Header.Set(signatureHeader, "deadbeef")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, w.Body.String())
	store.AssertNotCalled(t, "ApproveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveWithValidSignature(t *testing.T) {
	store := new(MockSessionStore)
	store.On("ApproveSession", "abc", mock.Anything, "b1", "o1").Return(nil)
	store.On("GetSession", "abc").Return(&Session{ID: "abc", Status: StatusApproved, GeneratedAuthToken: strPtr("tok")}, nil)

	router := newTestRouter(newTestHandler(store, "secret"))

	body := []byte(`{"session_id":"abc","branch_id":"b1","organization_id":"o1"}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/provision/approve", bytes.NewReader(body))
	req.Header.Set(signatureHeader, sign(body, "secret"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestApproveDecidedSessionReturnsConflict(t *testing.T) {
	store := new(MockSessionStore)
	store.On("ApproveSession", "abc", mock.Anything, "b1", "o1").Return(ErrAlreadyDecided)

	router := newTestRouter(newTestHandler(store, "secret"))

	body := []byte(`{"session_id":"abc","branch_id":"b1","organization_id":"o1"}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/provision/approve", bytes.NewReader(body))
	req.Header.Set(signatureHeader, sign(body, "secret"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRejectWithValidSignature(t *testing.T) {
	store := new(MockSessionStore)
	store.On("RejectSession", "abc").Return(nil)
	store.On("GetSession", "abc").Return(&Session{ID: "abc", Status: StatusRejected}, nil)

	router := newTestRouter(newTestHandler(store, "secret"))

	body := []byte(`{"session_id":"abc"}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/provision/reject", bytes.NewReader(body))
	req.Header.Set(signatureHeader, sign(body, "secret"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}
