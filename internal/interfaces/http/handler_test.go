package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"
	"botpanel/internal/repository/memory"
	"botpanel/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeployer struct {
	err    error
	bucket string
	key    string
}

func (d *fakeDeployer) UpdateFunctionCode(_ context.Context, s3Bucket, s3Key string) (*interfaces.DeployResult, error) {
	d.bucket, d.key = s3Bucket, s3Key
	if d.err != nil {
		return nil, d.err
	}
	return &interfaces.DeployResult{
		FunctionArn:  "arn:aws:lambda:eu-west-1:123:function:bots",
		CodeSha256:   "abc123",
		LastModified: "2026-01-01T00:00:00Z",
		State:        "Active",
	}, nil
}

type testServer struct {
	router   *gin.Engine
	store    *memory.Store
	auth     *usecases.AuthUsecase
	deployer *fakeDeployer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithDeployer(t, &fakeDeployer{})
}

func newTestServerWithDeployer(t *testing.T, deployer *fakeDeployer) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens := usecases.NewTokenService("test-secret")
	auth := usecases.NewAuthUsecase(store.Users(), tokens, log)
	authz := usecases.NewAuthorizer(store.Businesses(), store.Chatbots(), store.Modules())

	var iface interfaces.Deployer
	if deployer != nil {
		iface = deployer
	}
	h := NewHandler(
		auth,
		usecases.NewBusinessUsecase(store.Businesses(), authz),
		usecases.NewChatbotUsecase(store.Chatbots(), store.Businesses(), authz),
		usecases.NewModuleUsecase(store.Modules(), authz),
		usecases.NewUserAdminUsecase(store.Users(), store.Businesses(), store.Audit(), log),
		iface,
	)

	router := gin.New()
	SetupRoutes(router, h, NewMiddleware(tokens))
	return &testServer{router: router, store: store, auth: auth, deployer: deployer}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

// register + login, returning the session token.
func (ts *testServer) loginAs(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(t, "POST", "/auth/register", "", gin.H{"email": email, "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return ts.login(t, email, "password1")
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := ts.do(t, "POST", "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ts *testServer) loginAsAdmin(t *testing.T) string {
	t.Helper()
	require.NoError(t, ts.auth.EnsureAdmin(context.Background(), "admin@x.com", "adminpw1"))
	return ts.login(t, "admin@x.com", "adminpw1")
}

func (ts *testServer) createBusiness(t *testing.T, token, name string) entities.Business {
	t.Helper()
	w := ts.do(t, "POST", "/business", token, gin.H{"name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var biz entities.Business
	decode(t, w, &biz)
	return biz
}

func (ts *testServer) createChatbot(t *testing.T, token, name, businessID string) entities.Chatbot {
	t.Helper()
	w := ts.do(t, "POST", "/chatbot", token, gin.H{"name": name, "businessId": businessID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cb entities.Chatbot
	decode(t, w, &cb)
	return cb
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/auth/register", "", gin.H{"email": "not-an-email", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/auth/register", "", gin.H{"email": "a@x.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/auth/register", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDoesNotExposeHash(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/auth/register", "", gin.H{"email": "a@x.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

// The register → conflict → lockout → unlock scenario, end to end.
func TestAuthLockoutScenario(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/auth/register", "", gin.H{"email": "a@x.com", "password": "pw1pw1"})
	require.Equal(t, http.StatusOK, w.Code)

	// Duplicate email
	w = ts.do(t, "POST", "/auth/register", "", gin.H{"email": "a@x.com", "password": "pw1pw1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown user is a 404, not a 401
	w = ts.do(t, "POST", "/auth/login", "", gin.H{"email": "ghost@x.com", "password": "pw1pw1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Three wrong passwords; the third is still a 401
	for i := 0; i < 3; i++ {
		w = ts.do(t, "POST", "/auth/login", "", gin.H{"email": "a@x.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Correct password no longer helps
	w = ts.do(t, "POST", "/auth/login", "", gin.H{"email": "a@x.com", "password": "pw1pw1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin unlock
	adminToken := ts.loginAsAdmin(t)
	user, err := ts.store.Users().GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	w = ts.do(t, "PATCH", "/user", adminToken, gin.H{"id": user.ID, "accountLocked": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Login works again and the token is scoped to the user's own businesses
	token := ts.login(t, "a@x.com", "pw1pw1")
	biz := ts.createBusiness(t, token, "my shop")

	w = ts.do(t, "GET", "/business?id="+biz.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	otherToken := ts.loginAs(t, "b@x.com")
	w = ts.do(t, "GET", "/business?id="+biz.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/business", "/chatbot", "/module"} {
		w := ts.do(t, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := ts.do(t, "GET", "/business", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body gin.H
	decode(t, w, &body)
	assert.Contains(t, body, "error")
}

func TestBusinessCRUD(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginAs(t, "owner@x.com")

	w := ts.do(t, "POST", "/business", token, gin.H{
		"name":        "Flower Shop",
		"phone":       "+1 555 0100",
		"workingDays": []string{"Mon", "Tue"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var biz entities.Business
	decode(t, w, &biz)
	assert.NotEmpty(t, biz.ID)
	assert.Equal(t, []string{"Mon", "Tue"}, biz.WorkingDays)

	// Round-trip
	w = ts.do(t, "GET", "/business?id="+biz.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched entities.Business
	decode(t, w, &fetched)
	assert.Equal(t, biz.Name, fetched.Name)
	assert.Equal(t, biz.Phone, fetched.Phone)
	assert.Equal(t, biz.WorkingDays, fetched.WorkingDays)

	// Partial update leaves other fields alone
	w = ts.do(t, "PATCH", "/business", token, gin.H{"id": biz.ID, "geo": "Berlin"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &fetched)
	assert.Equal(t, "Berlin", fetched.Geo)
	assert.Equal(t, "Flower Shop", fetched.Name)

	// Missing id on delete
	w = ts.do(t, "DELETE", "/business", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "DELETE", "/business?id="+biz.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/business", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []entities.Business
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestChatbotOwnershipThroughBusiness(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := ts.loginAs(t, "owner@x.com")
	intruderToken := ts.loginAs(t, "intruder@x.com")

	biz := ts.createBusiness(t, ownerToken, "shop")
	cb := ts.createChatbot(t, ownerToken, "bot", biz.ID)

	// Creating under a foreign business is a 403
	w := ts.do(t, "POST", "/chatbot", intruderToken, gin.H{"name": "x", "businessId": biz.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "GET", "/chatbot?id="+cb.ID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "PATCH", "/chatbot", intruderToken, gin.H{"id": cb.ID, "name": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "DELETE", "/chatbot?id="+cb.ID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner listing nests the parent business
	w = ts.do(t, "GET", "/chatbot", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []entities.Chatbot
	decode(t, w, &list)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Business)
	assert.Equal(t, biz.ID, list[0].Business.ID)
}

func TestChatbotQREndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginAs(t, "owner@x.com")

	w := ts.do(t, "POST", "/business", token, gin.H{"name": "shop", "promoLink": "https://shop.example"})
	require.Equal(t, http.StatusOK, w.Code)
	var biz entities.Business
	decode(t, w, &biz)
	cb := ts.createChatbot(t, token, "bot", biz.ID)

	w = ts.do(t, "GET", "/chatbot/"+cb.ID+"/qr", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	intruderToken := ts.loginAs(t, "intruder@x.com")
	w = ts.do(t, "GET", "/chatbot/"+cb.ID+"/qr", intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestModulePartialAccessIsRejected(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := ts.loginAs(t, "owner@x.com")
	otherToken := ts.loginAs(t, "other@x.com")

	ownedBiz := ts.createBusiness(t, ownerToken, "mine")
	ownedBot := ts.createChatbot(t, ownerToken, "my bot", ownedBiz.ID)
	foreignBiz := ts.createBusiness(t, otherToken, "theirs")
	foreignBot := ts.createChatbot(t, otherToken, "their bot", foreignBiz.ID)

	w := ts.do(t, "POST", "/module", ownerToken, gin.H{
		"name":       "payments",
		"chatbotIds": []string{ownedBot.ID, foreignBot.ID},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Fully-owned set works
	w = ts.do(t, "POST", "/module", ownerToken, gin.H{
		"name":       "payments",
		"config":     gin.H{"provider": "stripe"},
		"chatbotIds": []string{ownedBot.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m entities.Module
	decode(t, w, &m)

	// Replacement with a foreign chatbot fails on update too
	w = ts.do(t, "PATCH", "/module", ownerToken, gin.H{
		"id":         m.ID,
		"chatbotIds": []string{foreignBot.ID},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserEndpointsAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	userToken := ts.loginAs(t, "plain@x.com")

	for _, c := range []struct{ method, path string }{
		{"GET", "/user"},
		{"PATCH", "/user"},
		{"DELETE", "/user?id=whatever"},
		{"GET", "/log"},
	} {
		w := ts.do(t, c.method, c.path, userToken, gin.H{"id": "whatever"})
		assert.Equal(t, http.StatusForbidden, w.Code, c.method+" "+c.path)
	}
}

func TestAdminCannotTargetSelf(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.loginAsAdmin(t)

	admin, err := ts.store.Users().GetByEmail(context.Background(), "admin@x.com")
	require.NoError(t, err)

	w := ts.do(t, "PATCH", "/user", adminToken, gin.H{"id": admin.ID, "role": "USER"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "PATCH", "/user", adminToken, gin.H{"id": admin.ID, "accountLocked": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "DELETE", "/user?id="+admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminUserManagementAndLogs(t *testing.T) {
	ts := newTestServer(t)
	ts.loginAs(t, "target@x.com")
	adminToken := ts.loginAsAdmin(t)

	target, err := ts.store.Users().GetByEmail(context.Background(), "target@x.com")
	require.NoError(t, err)

	w := ts.do(t, "PATCH", "/user", adminToken, gin.H{"id": target.ID, "role": "ADMIN", "lang": "de"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated entities.User
	decode(t, w, &updated)
	assert.Equal(t, "ADMIN", updated.Role)
	assert.Equal(t, "de", updated.Lang)

	w = ts.do(t, "DELETE", "/user?id="+target.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/log", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []entities.AuditLog
	decode(t, w, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, "admin@x.com", logs[0].ActorEmail)
}

func TestDeployEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginAs(t, "owner@x.com")

	w := ts.do(t, "POST", "/deploy", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Defaults are filled in
	w = ts.do(t, "POST", "/deploy", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "my-chatbot-bucket", ts.deployer.bucket)
	assert.Equal(t, "chatbot_code.zip", ts.deployer.key)

	w = ts.do(t, "POST", "/deploy", token, gin.H{"s3Bucket": "b", "s3Key": "k.zip"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b", ts.deployer.bucket)
	assert.Equal(t, "k.zip", ts.deployer.key)

	// Trigger failures surface as raw 500s
	ts.deployer.err = errors.New("lambda says no")
	w = ts.do(t, "POST", "/deploy", token, gin.H{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "lambda says no")
}

func TestDeployUnconfigured(t *testing.T) {
	ts := newTestServerWithDeployer(t, nil)
	token := ts.loginAs(t, "owner@x.com")

	w := ts.do(t, "POST", "/deploy", token, gin.H{})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
