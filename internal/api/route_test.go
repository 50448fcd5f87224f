package api

import (
	"SportsX/internal/api/config"
	"SportsX/internal/api/dto"
	"SportsX/internal/api/handler"
	"SportsX/internal/api/middleware"
	"SportsX/internal/pkg/security"
	"SportsX/internal/service"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relationCall struct {
	actor, target string
}

// stubFollowService 记录调用参数并返回预设结果
type stubFollowService struct {
	rel       service.Relationship
	err       error
	calls     []relationCall
	listQuery *dto.ListRelationQueryDTO
	listUser  string
}

func (s *stubFollowService) record(actor, target string) (service.Relationship, error) {
	s.calls = append(s.calls, relationCall{actor: actor, target: target})
	return s.rel, s.err
}

func (s *stubFollowService) GetRelationship(_ context.Context, actorID, targetID string) (service.Relationship, error) {
	return s.record(actorID, targetID)
}

func (s *stubFollowService) Follow(_ context.Context, actorID, targetID string) (service.Relationship, error) {
	return s.record(actorID, targetID)
}

func (s *stubFollowService) Unfollow(_ context.Context, actorID, targetID string) (service.Relationship, error) {
	return s.record(actorID, targetID)
}

func (s *stubFollowService) GetRelationCounts(_ context.Context, userID string) (*dto.RelationCountDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RelationCountDTO{Followers: 3, Following: 2, Friends: 1}, nil
}

func (s *stubFollowService) CountRelations(_ context.Context, _ uint64) (*dto.RelationCountDTO, error) {
	return &dto.RelationCountDTO{}, nil
}

func (s *stubFollowService) list(userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	s.listUser, s.listQuery = userID, query
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RelationPageDTO{
		Items: []*dto.PersonInfoDTO{{UserID: "u_2", Nickname: "Alice"}},
	}, nil
}

func (s *stubFollowService) ListFollowing(_ context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	return s.list(userID, query)
}

func (s *stubFollowService) ListFollowers(_ context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	return s.list(userID, query)
}

func (s *stubFollowService) ListFriends(_ context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	return s.list(userID, query)
}

// stubTokenRepo 被注销的签名集合
type stubTokenRepo struct {
	revoked map[string]bool
}

func (r *stubTokenRepo) IsRevoked(_ context.Context, signature string) (bool, error) {
	return r.revoked[signature], nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type routerFixture struct {
	engine   *gin.Engine
	svc      *stubFollowService
	tokens   *stubTokenRepo
	verifier *security.TokenVerifier
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		svc:      &stubFollowService{rel: service.RelationshipFollowing},
		tokens:   &stubTokenRepo{revoked: map[string]bool{}},
		verifier: security.NewTokenVerifier(config.JWTConfig{Secret: "test-secret", Issuer: "sportsx-user"}),
	}
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)
	f.engine = SetupRouter(&HandlersGroup{
		UserFollowHandler: handler.NewUserFollowHandler(f.svc),
	}, RouterOptions{
		Auth:           middleware.AuthMiddleware(f.verifier, f.tokens, metrics),
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return f
}

func (f *routerFixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.verifier.GenerateToken(userID, []string{"user"}, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, target, token string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPing(t *testing.T) {
	f := newRouterFixture(t)
	resp := f.do(t, http.MethodGet, "/api/ping", "")
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "pong", resp.Message)
}

// TestFollowRequiresAuth 未携带或携带无效 Token 时拒绝
func TestFollowRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodPost, "/api/user-relation/follow/u_2", "")
	assert.Equal(t, 401, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/user-relation/follow/u_2", "not.a.token")
	assert.Equal(t, 401, resp.Code)

	token := f.token(t, "u_1")
	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	f.tokens.revoked[sig] = true
	resp = f.do(t, http.MethodPost, "/api/user-relation/follow/u_2", token)
	assert.Equal(t, 401, resp.Code)

	assert.Empty(t, f.svc.calls)
}

func TestFollow(t *testing.T) {
	f := newRouterFixture(t)
	resp := f.do(t, http.MethodPost, "/api/user-relation/follow/u_2", f.token(t, "u_1"))

	assert.Equal(t, 200, resp.Code)
	require.Len(t, f.svc.calls, 1)
	assert.Equal(t, relationCall{actor: "u_1", target: "u_2"}, f.svc.calls[0])

	var data dto.RelationshipDTO
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "u_2", data.UserID)
	assert.Equal(t, "following", data.Relationship)
}

func TestUnfollowAndRelationship(t *testing.T) {
	f := newRouterFixture(t)
	f.svc.rel = service.RelationshipNone
	token := f.token(t, "u_1")

	resp := f.do(t, http.MethodDelete, "/api/user-relation/follow/u_2", token)
	assert.Equal(t, 200, resp.Code)
	resp = f.do(t, http.MethodGet, "/api/user-relation/relationship/u_2", token)
	assert.Equal(t, 200, resp.Code)
	assert.Len(t, f.svc.calls, 2)

	var data dto.RelationshipDTO
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "none", data.Relationship)
}

// TestBusinessErrors 业务错误映射为对应状态码
func TestBusinessErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{service.ErrUserFollowSelf, 400, service.ErrUserFollowSelf.Error()},
		{service.ErrUserFollowExist, 400, service.ErrUserFollowExist.Error()},
		{service.ErrUserNotFound, 404, service.ErrUserNotFound.Error()},
		{errors.New("connection refused"), 500, service.UnExpectedError.Error()},
	}
	for _, c := range cases {
		f := newRouterFixture(t)
		f.svc.err = c.err
		resp := f.do(t, http.MethodPost, "/api/user-relation/follow/u_2", f.token(t, "u_1"))
		assert.Equal(t, c.wantCode, resp.Code)
		assert.Equal(t, c.wantMsg, resp.Message)
	}
}

func TestRelationCounts(t *testing.T) {
	f := newRouterFixture(t)
	resp := f.do(t, http.MethodGet, "/api/user-relation/count/u_2", "")
	assert.Equal(t, 200, resp.Code)

	var data dto.RelationCountDTO
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, dto.RelationCountDTO{Followers: 3, Following: 2, Friends: 1}, data)

	f.svc.err = service.ErrUserNotFound
	resp = f.do(t, http.MethodGet, "/api/user-relation/count/ghost", "")
	assert.Equal(t, 404, resp.Code)
}

// TestListQueryBinding 分页参数透传到服务层
func TestListQueryBinding(t *testing.T) {
	f := newRouterFixture(t)
	resp := f.do(t, http.MethodGet,
		"/api/user-relation/followings/u_9?limit=5&cursor_created_at=2025-03-01T08:00:00Z&cursor_id=u_3&search=al", "")
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "u_9", f.svc.listUser)

	q := f.svc.listQuery
	require.NotNil(t, q)
	require.NotNil(t, q.Limit)
	assert.Equal(t, 5, *q.Limit)
	require.NotNil(t, q.CursorCreatedAt)
	assert.True(t, q.CursorCreatedAt.Equal(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "u_3", *q.CursorID)
	assert.Equal(t, "al", *q.Search)

	var page dto.RelationPageDTO
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice", page.Items[0].Nickname)

	for _, path := range []string{"/api/user-relation/followers/u_9", "/api/user-relation/friends/u_9"} {
		f.svc.listQuery = nil
		resp = f.do(t, http.MethodGet, path, "")
		assert.Equal(t, 200, resp.Code)
		assert.NotNil(t, f.svc.listQuery)
	}
}

// TestListQueryRejected 非法分页参数在进入服务层前被拒绝
func TestListQueryRejected(t *testing.T) {
	for _, query := range []string{"limit=0", "limit=101", "limit=abc", "cursor_created_at=yesterday"} {
		f := newRouterFixture(t)
		resp := f.do(t, http.MethodGet, "/api/user-relation/followings/u_9?"+query, "")
		assert.Equal(t, 400, resp.Code, query)
		assert.Nil(t, f.svc.listQuery, query)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodGet, "/api/user-relation/count/u_2", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "http_requests_total"))
	assert.True(t, strings.Contains(body, `path="/api/user-relation/count/:user_id"`))
}
