package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"epunch/internal/apperr"
	"epunch/internal/authz"
	"epunch/internal/dto"
	"epunch/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokens verifies against a fixed token → principal table.
type stubTokens struct {
	principals map[string]*authz.Principal
	loginResp  *dto.LoginResponse
	loginErr   error
}

func (s *stubTokens) IssueForCustomer(_ context.Context, _ string) (*dto.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubTokens) IssueForMerchantUser(_ context.Context, _ dto.MerchantLoginRequest) (*dto.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubTokens) Verify(token string) (*authz.Principal, error) {
	if token == "expired" {
		return nil, apperr.ErrTokenExpired
	}
	p, ok := s.principals[token]
	if !ok {
		return nil, apperr.ErrTokenInvalid
	}
	return p, nil
}

type stubScans struct {
	result *dto.PunchOperationResult
	err    error
}

func (s *stubScans) Scan(_ context.Context, _ *authz.Principal, _ dto.ScanRequest) (*dto.PunchOperationResult, error) {
	return s.result, s.err
}

func newScanRouter(tokens *stubTokens, scans *stubScans) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/scan", middleware.Auth(tokens), NewScanHandler(scans).Scan)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  *string           `json:"error"`
	Fields map[string]string `json:"fields"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestScanEndpointHappyPath(t *testing.T) {
	tokens := &stubTokens{principals: map[string]*authz.Principal{
		"staff-token": {UserID: "s1", MerchantID: "m1", Role: authz.RoleStaff},
	}}
	scans := &stubScans{result: &dto.PunchOperationResult{
		RewardAchieved:  false,
		CurrentPunches:  4,
		RequiredPunches: 10,
	}}
	r := newScanRouter(tokens, scans)

	w := doJSON(t, r, http.MethodPost, "/v1/scan", "staff-token",
		`{"qr_payload":"{\"type\":\"user_id\",\"user_id\":\"u1\"}"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Nil(t, env.Error)

	var res dto.PunchOperationResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 4, res.CurrentPunches)
}

func TestScanEndpointRequiresToken(t *testing.T) {
	r := newScanRouter(&stubTokens{}, &stubScans{})

	w := doJSON(t, r, http.MethodPost, "/v1/scan", "", `{"qr_payload":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperr.ErrUnauthenticated.Message, *env.Error)
}

func TestScanEndpointTokenFailures(t *testing.T) {
	r := newScanRouter(&stubTokens{principals: map[string]*authz.Principal{}}, &stubScans{})

	w := doJSON(t, r, http.MethodPost, "/v1/scan", "garbage", `{"qr_payload":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, apperr.ErrTokenInvalid.Message, *env.Error)

	w = doJSON(t, r, http.MethodPost, "/v1/scan", "expired", `{"qr_payload":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env = decodeEnvelope(t, w)
	// expiry keeps its own message so clients can trigger a re-login
	assert.Equal(t, apperr.ErrTokenExpired.Message, *env.Error)
}

func TestScanEndpointValidation(t *testing.T) {
	tokens := &stubTokens{principals: map[string]*authz.Principal{
		"t": {UserID: "u1"},
	}}
	r := newScanRouter(tokens, &stubScans{})

	w := doJSON(t, r, http.MethodPost, "/v1/scan", "t", `{{{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/scan", "t", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Fields, "QRPayload")
}

func TestScanEndpointDomainErrorStatuses(t *testing.T) {
	tokens := &stubTokens{principals: map[string]*authz.Principal{
		"t": {UserID: "s1", MerchantID: "m1", Role: authz.RoleStaff},
	}}
	body := `{"qr_payload":"{\"type\":\"user_id\",\"user_id\":\"u1\"}"}`

	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrInvalidQRPayload, http.StatusBadRequest},
		{apperr.ErrForbidden, http.StatusForbidden},
		{apperr.ErrProgramNotFound, http.StatusNotFound},
		{apperr.ErrCardNotFound, http.StatusNotFound},
		{apperr.ErrRewardAlreadyReady, http.StatusConflict},
		{apperr.ErrRewardNotReady, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(apperr.CodeOf(tc.err), func(t *testing.T) {
			r := newScanRouter(tokens, &stubScans{err: tc.err})
			w := doJSON(t, r, http.MethodPost, "/v1/scan", "t", body)
			assert.Equal(t, tc.status, w.Code)
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			// RawMessage keeps the literal bytes, so a null data field is "null"
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

func TestScanEndpointHidesInternalErrors(t *testing.T) {
	tokens := &stubTokens{principals: map[string]*authz.Principal{
		"t": {UserID: "u1"},
	}}
	r := newScanRouter(tokens, &stubScans{err: assert.AnError})

	w := doJSON(t, r, http.MethodPost, "/v1/scan", "t",
		`{"qr_payload":"{\"type\":\"user_id\",\"user_id\":\"u1\"}"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "internal server error", *env.Error)
}
