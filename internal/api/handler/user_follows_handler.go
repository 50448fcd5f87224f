package handler

import (
	"SportsX/internal/api/dto"
	"SportsX/internal/pkg/consts"
	"SportsX/internal/pkg/response"
	"SportsX/internal/pkg/util"
	"SportsX/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

type listFunc func(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error)

type relationFunc func(ctx context.Context, actorID, targetID string) (service.Relationship, error)

// GetRelationship 当前用户与 user_id 的关系
func (s *UserFollowHandler) GetRelationship(c *gin.Context) {
	s.relationAction(c, s.userFollowSvc.GetRelationship)
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	s.relationAction(c, s.userFollowSvc.Follow)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	s.relationAction(c, s.userFollowSvc.Unfollow)
}

func (s *UserFollowHandler) GetRelationCounts(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	counts, err := s.userFollowSvc.GetRelationCounts(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, counts)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	s.listRelation(c, s.userFollowSvc.ListFollowing)
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	s.listRelation(c, s.userFollowSvc.ListFollowers)
}

func (s *UserFollowHandler) GetUserFriends(c *gin.Context) {
	s.listRelation(c, s.userFollowSvc.ListFriends)
}

func (s *UserFollowHandler) relationAction(c *gin.Context, fn relationFunc) {
	actorID := c.GetString(consts.CtxUserID)
	if actorID == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	targetID := c.Param("user_id")
	if targetID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	rel, err := fn(c, actorID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.RelationshipDTO{
		UserID:       targetID,
		Relationship: string(rel),
	})
}

func (s *UserFollowHandler) listRelation(c *gin.Context, fn listFunc) {
	userID := c.Param("user_id")
	if userID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var query dto.ListRelationQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}
	page, err := fn(c, userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
