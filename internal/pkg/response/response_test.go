package response

import (
	"SportsX/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func run(t *testing.T, err error) body {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	require.Equal(t, http.StatusOK, w.Code)
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestErrorMapsSentinels(t *testing.T) {
	b := run(t, service.ErrUserNotFound)
	assert.Equal(t, NotFound, b.Code)
	assert.Equal(t, service.ErrUserNotFound.Error(), b.Message)

	b = run(t, errors.Wrap(service.ErrUserFollowExist, "follow"))
	assert.Equal(t, BadRequest, b.Code)
	assert.Equal(t, service.ErrUserFollowExist.Error(), b.Message)
}

func TestErrorHidesUnknown(t *testing.T) {
	b := run(t, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, InternalServerError, b.Code)
	assert.Equal(t, service.UnExpectedError.Error(), b.Message)
}
