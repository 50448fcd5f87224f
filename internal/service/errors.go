package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrUserNotFound    = errors.New("用户不存在")
	ErrUserFollowExist = errors.New("用户已关注")
	ErrUserFollowSelf  = errors.New("用户不能关注自己")
	ErrInvalidCursor   = errors.New("分页游标无效")
	UnauthorizedError  = errors.New("权限不足")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrUserNotFound:    NotFound,
	ErrUserFollowExist: BadRequest,
	ErrUserFollowSelf:  BadRequest,
	ErrInvalidCursor:   BadRequest,
	UnauthorizedError:  Unauthorized,
	UnExpectedError:    InternalServerError,
}
