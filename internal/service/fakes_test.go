package service

import (
	"SportsX/internal/model"
	"SportsX/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

// memUserRepo 内存用户表
type memUserRepo struct {
	users   map[uint64]*model.User
	lookups int
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uint64]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	return r.users[id], nil
}

// GetUserByIds 故意按 ID 倒序返回，模拟批量加载不保序
func (r *memUserRepo) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (r *memUserRepo) GetUserByUserID(_ context.Context, userID string) (*model.User, error) {
	r.lookups++
	for _, u := range r.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, nil
}

// memUserCache 内存用户缓存
type memUserCache struct {
	items map[string]*model.User
}

func newMemUserCache() *memUserCache {
	return &memUserCache{items: make(map[string]*model.User)}
}

func (c *memUserCache) Get(_ context.Context, userID string) (*model.User, error) {
	return c.items[userID], nil
}

func (c *memUserCache) Set(_ context.Context, user *model.User) error {
	c.items[user.UserID] = user
	return nil
}

func (c *memUserCache) Delete(_ context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		delete(c.items, id)
	}
	return nil
}

// memUserFollowRepo 内存关注边，语义与 SQL 实现一致
type memUserFollowRepo struct {
	mu    sync.Mutex
	edges []*model.UserFollow
	// createHook 在写入前调用，用于模拟并发插入
	createHook func()
}

func (r *memUserFollowRepo) find(followerID, followedID uint64) *model.UserFollow {
	for _, e := range r.edges {
		if e.FollowerID == followerID && e.FollowedID == followedID {
			return e
		}
	}
	return nil
}

func (r *memUserFollowRepo) IsFollowing(_ context.Context, followerID, followedID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(followerID, followedID) != nil, nil
}

func (r *memUserFollowRepo) CreateUserFollow(_ context.Context, userFollow *model.UserFollow) error {
	if r.createHook != nil {
		r.createHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(userFollow.FollowerID, userFollow.FollowedID) != nil {
		return repository.ErrAlreadyExists
	}
	r.edges = append(r.edges, userFollow)
	return nil
}

func (r *memUserFollowRepo) DeleteUserFollow(_ context.Context, followerID, followedID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.edges[:0]
	for _, e := range r.edges {
		if e.FollowerID == followerID && e.FollowedID == followedID {
			continue
		}
		kept = append(kept, e)
	}
	r.edges = kept
	return nil
}

func (r *memUserFollowRepo) CountFollowing(ctx context.Context, userID uint64, exclude []uint64) (int64, error) {
	edges, _ := r.GetFollowingEdges(ctx, userID, repository.EdgeQuery{Exclude: exclude})
	return int64(len(edges)), nil
}

func (r *memUserFollowRepo) CountFollowers(ctx context.Context, userID uint64, exclude []uint64) (int64, error) {
	edges, _ := r.GetFollowerEdges(ctx, userID, repository.EdgeQuery{Exclude: exclude})
	return int64(len(edges)), nil
}

func (r *memUserFollowRepo) CountFriends(ctx context.Context, userID uint64) (int64, error) {
	rows, _ := r.GetFriendEdges(ctx, userID, repository.EdgeQuery{})
	return int64(len(rows)), nil
}

func (r *memUserFollowRepo) GetFriendIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, _ := r.GetFriendEdges(ctx, userID, repository.EdgeQuery{})
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FriendID)
	}
	return ids, nil
}

func (r *memUserFollowRepo) GetFollowingEdges(_ context.Context, userID uint64, q repository.EdgeQuery) ([]*model.UserFollow, error) {
	return r.directed(q, func(e *model.UserFollow) (bool, uint64) {
		return e.FollowerID == userID, e.FollowedID
	}), nil
}

func (r *memUserFollowRepo) GetFollowerEdges(_ context.Context, userID uint64, q repository.EdgeQuery) ([]*model.UserFollow, error) {
	return r.directed(q, func(e *model.UserFollow) (bool, uint64) {
		return e.FollowedID == userID, e.FollowerID
	}), nil
}

func (r *memUserFollowRepo) GetFriendEdges(_ context.Context, userID uint64, q repository.EdgeQuery) ([]*model.FriendEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]*model.FriendEdge, 0)
	for _, out := range r.edges {
		if out.FollowerID != userID {
			continue
		}
		in := r.find(out.FollowedID, userID)
		if in == nil {
			continue
		}
		since := out.CreatedAt
		if in.CreatedAt.After(since) {
			since = in.CreatedAt
		}
		if !afterCursor(since, out.FollowedID, q) {
			continue
		}
		rows = append(rows, &model.FriendEdge{FriendID: out.FollowedID, FriendSince: since})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].FriendSince.Equal(rows[j].FriendSince) {
			return rows[i].FriendSince.Before(rows[j].FriendSince)
		}
		return rows[i].FriendID < rows[j].FriendID
	})
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func (r *memUserFollowRepo) directed(q repository.EdgeQuery, match func(e *model.UserFollow) (bool, uint64)) []*model.UserFollow {
	r.mu.Lock()
	defer r.mu.Unlock()
	excluded := make(map[uint64]struct{}, len(q.Exclude))
	for _, id := range q.Exclude {
		excluded[id] = struct{}{}
	}
	type pair struct {
		edge *model.UserFollow
		peer uint64
	}
	pairs := make([]pair, 0)
	for _, e := range r.edges {
		ok, peer := match(e)
		if !ok {
			continue
		}
		if _, skip := excluded[peer]; skip {
			continue
		}
		if !afterCursor(e.CreatedAt, peer, q) {
			continue
		}
		pairs = append(pairs, pair{edge: e, peer: peer})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if !pairs[i].edge.CreatedAt.Equal(pairs[j].edge.CreatedAt) {
			return pairs[i].edge.CreatedAt.Before(pairs[j].edge.CreatedAt)
		}
		return pairs[i].peer < pairs[j].peer
	})
	if q.Limit > 0 && len(pairs) > q.Limit {
		pairs = pairs[:q.Limit]
	}
	edges := make([]*model.UserFollow, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, p.edge)
	}
	return edges
}

func afterCursor(t time.Time, id uint64, q repository.EdgeQuery) bool {
	if q.CursorCreatedAt == nil {
		return true
	}
	if q.CursorID == nil {
		return t.After(*q.CursorCreatedAt)
	}
	return t.After(*q.CursorCreatedAt) || (t.Equal(*q.CursorCreatedAt) && id > *q.CursorID)
}
