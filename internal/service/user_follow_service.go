package service

import (
	"SportsX/internal/api/config"
	"SportsX/internal/api/dto"
	"SportsX/internal/model"
	"SportsX/internal/pkg/consts"
	"SportsX/internal/pkg/util"
	"SportsX/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

type UserFollowService interface {
	GetRelationship(ctx context.Context, actorID, targetID string) (Relationship, error)
	GetRelationCounts(ctx context.Context, userID string) (*dto.RelationCountDTO, error)
	CountRelations(ctx context.Context, id uint64) (*dto.RelationCountDTO, error)
	Follow(ctx context.Context, actorID, targetID string) (Relationship, error)
	Unfollow(ctx context.Context, actorID, targetID string) (Relationship, error)
	ListFollowing(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error)
	ListFollowers(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error)
	ListFriends(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error)
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
	userSvc        UserService
	defaultLimit   int
	maxLimit       int
	now            func() time.Time
}

func NewUserFollowService(
	userFollowRepo repository.UserFollowRepo,
	userSvc UserService,
	cfg config.RelationConfig,
) UserFollowService {
	svc := &UserFollowServiceImpl{
		userFollowRepo: userFollowRepo,
		userSvc:        userSvc,
		defaultLimit:   cfg.DefaultLimit,
		maxLimit:       cfg.MaxLimit,
		now:            time.Now,
	}
	if svc.maxLimit <= 0 {
		svc.maxLimit = consts.MaxRelationLimit
	}
	if svc.defaultLimit <= 0 || svc.defaultLimit > svc.maxLimit {
		svc.defaultLimit = min(consts.DefaultRelationLimit, svc.maxLimit)
	}
	return svc
}

type edgeFetchFunc func(ctx context.Context, userID uint64, q repository.EdgeQuery) ([]*model.UserFollow, error)

// pageCursor 解析后的游标，id 为对端用户内部 ID
type pageCursor struct {
	createdAt *time.Time
	id        *uint64
}

// GetRelationship actorID 视角下与 targetID 的关系
func (s *UserFollowServiceImpl) GetRelationship(ctx context.Context, actorID, targetID string) (Relationship, error) {
	actor, err := s.userSvc.ResolveUser(ctx, actorID)
	if err != nil {
		return "", err
	}
	target, err := s.userSvc.ResolveUser(ctx, targetID)
	if err != nil {
		return "", err
	}
	return s.classifyPair(ctx, actor.ID, target.ID)
}

func (s *UserFollowServiceImpl) GetRelationCounts(ctx context.Context, userID string) (*dto.RelationCountDTO, error) {
	user, err := s.userSvc.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.CountRelations(ctx, user.ID)
}

// CountRelations 关注、粉丝均不含互关好友
func (s *UserFollowServiceImpl) CountRelations(ctx context.Context, id uint64) (*dto.RelationCountDTO, error) {
	friendIDs, err := s.userFollowRepo.GetFriendIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	following, err := s.userFollowRepo.CountFollowing(ctx, id, friendIDs)
	if err != nil {
		return nil, err
	}
	followers, err := s.userFollowRepo.CountFollowers(ctx, id, friendIDs)
	if err != nil {
		return nil, err
	}
	friends, err := s.userFollowRepo.CountFriends(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RelationCountDTO{
		Followers: followers,
		Following: following,
		Friends:   friends,
	}, nil
}

// Follow 关注成功后返回最新关系
func (s *UserFollowServiceImpl) Follow(ctx context.Context, actorID, targetID string) (Relationship, error) {
	actor, target, err := s.resolvePair(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}

	exist, err := s.userFollowRepo.IsFollowing(ctx, actor.ID, target.ID)
	if err != nil {
		return "", err
	}
	if exist {
		return "", ErrUserFollowExist
	}

	err = s.userFollowRepo.CreateUserFollow(ctx, &model.UserFollow{
		ID:         uuid.NewString(),
		FollowerID: actor.ID,
		FollowedID: target.ID,
		CreatedAt:  s.now(),
	})
	if err != nil {
		// 并发关注由唯一索引兜底
		if errors.Is(err, repository.ErrAlreadyExists) {
			return "", ErrUserFollowExist
		}
		return "", err
	}

	return s.classifyPair(ctx, actor.ID, target.ID)
}

// Unfollow 未关注时静默成功
func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, actorID, targetID string) (Relationship, error) {
	actor, target, err := s.resolvePair(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}
	if err = s.userFollowRepo.DeleteUserFollow(ctx, actor.ID, target.ID); err != nil {
		return "", err
	}
	return s.classifyPair(ctx, actor.ID, target.ID)
}

// ListFollowing 单向关注列表，按关注时间升序
func (s *UserFollowServiceImpl) ListFollowing(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	return s.listDirected(ctx, userID, query,
		s.userFollowRepo.GetFollowingEdges,
		func(edge *model.UserFollow) uint64 { return edge.FollowedID },
	)
}

// ListFollowers 单向粉丝列表，按关注时间升序
func (s *UserFollowServiceImpl) ListFollowers(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	return s.listDirected(ctx, userID, query,
		s.userFollowRepo.GetFollowerEdges,
		func(edge *model.UserFollow) uint64 { return edge.FollowerID },
	)
}

// ListFriends 互关好友列表，按成为好友的时间升序
func (s *UserFollowServiceImpl) ListFriends(ctx context.Context, userID string, query *dto.ListRelationQueryDTO) (*dto.RelationPageDTO, error) {
	query = normalizeQuery(query)
	subject, err := s.userSvc.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.resolveCursor(ctx, query)
	if err != nil {
		return nil, err
	}
	limit := s.normalizeLimit(query.Limit)
	search := derefString(query.Search)

	q := repository.EdgeQuery{CursorCreatedAt: cursor.createdAt, CursorID: cursor.id}
	if search == "" {
		q.Limit = limit
	}
	rows, err := s.userFollowRepo.GetFriendEdges(ctx, subject.ID, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return emptyPage(), nil
	}

	since := make(map[uint64]time.Time, len(rows))
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		since[row.FriendID] = row.FriendSince
		ids = append(ids, row.FriendID)
	}
	users, err := s.userSvc.GetUsersByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	matched := make([]*model.User, 0, len(users))
	for _, user := range users {
		if util.ContainsFold(user.Nickname, search) {
			matched = append(matched, user)
		}
	}
	if len(matched) == 0 {
		return emptyPage(), nil
	}
	// 按 ID 批量加载不保证顺序
	sort.Slice(matched, func(i, j int) bool {
		ti, tj := since[matched[i].ID], since[matched[j].ID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return matched[i].ID < matched[j].ID
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	last := matched[len(matched)-1]
	return buildPage(matched, since[last.ID], limit)
}

func (s *UserFollowServiceImpl) listDirected(
	ctx context.Context,
	userID string,
	query *dto.ListRelationQueryDTO,
	fetch edgeFetchFunc,
	counterpart func(edge *model.UserFollow) uint64,
) (*dto.RelationPageDTO, error) {
	query = normalizeQuery(query)
	subject, err := s.userSvc.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.resolveCursor(ctx, query)
	if err != nil {
		return nil, err
	}
	limit := s.normalizeLimit(query.Limit)
	search := derefString(query.Search)

	friendIDs, err := s.userFollowRepo.GetFriendIDs(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	q := repository.EdgeQuery{
		Exclude:         friendIDs,
		CursorCreatedAt: cursor.createdAt,
		CursorID:        cursor.id,
	}
	// 带搜索时扫描剩余区间，保证一页能凑满匹配项
	if search == "" {
		q.Limit = limit
	}
	edges, err := fetch(ctx, subject.ID, q)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return emptyPage(), nil
	}

	ids := make([]uint64, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, counterpart(edge))
	}
	users, err := s.userSvc.GetUsersByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	matched := make([]*model.User, 0, limit)
	for _, edge := range edges {
		user, ok := byID[counterpart(edge)]
		if !ok || !util.ContainsFold(user.Nickname, search) {
			continue
		}
		matched = append(matched, user)
		if len(matched) == limit {
			break
		}
	}
	if len(matched) == 0 {
		return emptyPage(), nil
	}

	// 游标时间取自最后一个用户对应的边
	last := matched[len(matched)-1]
	var lastCreatedAt time.Time
	for _, edge := range edges {
		if counterpart(edge) == last.ID {
			lastCreatedAt = edge.CreatedAt
			break
		}
	}
	return buildPage(matched, lastCreatedAt, limit)
}

func (s *UserFollowServiceImpl) resolvePair(ctx context.Context, actorID, targetID string) (*model.User, *model.User, error) {
	if actorID == targetID {
		return nil, nil, ErrUserFollowSelf
	}
	actor, err := s.userSvc.ResolveUser(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.userSvc.ResolveUser(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

func (s *UserFollowServiceImpl) classifyPair(ctx context.Context, a, b uint64) (Relationship, error) {
	aFollowsB, err := s.userFollowRepo.IsFollowing(ctx, a, b)
	if err != nil {
		return "", err
	}
	bFollowsA, err := s.userFollowRepo.IsFollowing(ctx, b, a)
	if err != nil {
		return "", err
	}
	return classify(aFollowsB, bFollowsA), nil
}

// resolveCursor cursor 优先于 cursor_created_at + cursor_id
// 无法解析的 cursor_id 会被忽略，只保留时间条件
func (s *UserFollowServiceImpl) resolveCursor(ctx context.Context, query *dto.ListRelationQueryDTO) (pageCursor, error) {
	var createdAt *time.Time
	cursorUserID := ""
	switch {
	case query.Cursor != nil && *query.Cursor != "":
		t, id, err := util.DecodeRelationCursor(*query.Cursor)
		if err != nil {
			return pageCursor{}, ErrInvalidCursor
		}
		createdAt, cursorUserID = &t, id
	case query.CursorCreatedAt != nil:
		createdAt, cursorUserID = query.CursorCreatedAt, derefString(query.CursorID)
	}
	if createdAt == nil {
		return pageCursor{}, nil
	}
	if cursorUserID == "" {
		return pageCursor{createdAt: createdAt}, nil
	}

	user, err := s.userSvc.LookupUser(ctx, cursorUserID)
	if err != nil {
		return pageCursor{}, err
	}
	if user == nil {
		log.WarnContext(ctx, "cursor user not found, fallback to timestamp cursor", "cursor_id", cursorUserID)
		return pageCursor{createdAt: createdAt}, nil
	}
	return pageCursor{createdAt: createdAt, id: &user.ID}, nil
}

func (s *UserFollowServiceImpl) normalizeLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return s.defaultLimit
	}
	return min(*limit, s.maxLimit)
}

func normalizeQuery(query *dto.ListRelationQueryDTO) *dto.ListRelationQueryDTO {
	if query == nil {
		return &dto.ListRelationQueryDTO{}
	}
	return query
}

func buildPage(users []*model.User, lastCreatedAt time.Time, limit int) (*dto.RelationPageDTO, error) {
	items, err := toPersonInfos(users)
	if err != nil {
		return nil, err
	}
	lastID := users[len(users)-1].UserID
	cursor := util.EncodeRelationCursor(lastCreatedAt, lastID)
	return &dto.RelationPageDTO{
		Items:               items,
		NextCursorCreatedAt: &lastCreatedAt,
		NextCursorID:        &lastID,
		NextCursor:          &cursor,
		HasMore:             len(items) == limit,
	}, nil
}

func emptyPage() *dto.RelationPageDTO {
	return &dto.RelationPageDTO{
		Items:   make([]*dto.PersonInfoDTO, 0),
		HasMore: false,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
