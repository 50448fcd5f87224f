package response

import (
	"SportsX/internal/api/dto"
	"SportsX/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// 业务码，HTTP 状态码统一为 200
const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
	})
}

// Error 业务错误按 ErrorMap 转换，其余错误记录日志后统一返回 500
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &ve):
		Fail(c, BadRequest, service.ErrParamInvalid.Error())
		return
	case errors.As(err, &ute):
		Fail(c, BadRequest, "Json错误")
		return
	}

	if target, code, ok := lookup(err); ok {
		Fail(c, code, target.Error())
		return
	}
	log.ErrorContext(c.Request.Context(), "Unhandled error",
		"path", c.FullPath(),
		"err", err)
	Fail(c, InternalServerError, service.UnExpectedError.Error())
}

// lookup 兼容被包装过的哨兵错误
func lookup(err error) (error, int, bool) {
	if code, ok := service.ErrorMap[err]; ok {
		return err, code, true
	}
	for target, code := range service.ErrorMap {
		if errors.Is(err, target) {
			return target, code, true
		}
	}
	return nil, 0, false
}
