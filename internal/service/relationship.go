package service

// Relationship 从 A 的视角看 A 与 B 的关系
type Relationship string

const (
	RelationshipNone      Relationship = "none"
	RelationshipFollowing Relationship = "following"
	RelationshipFollower  Relationship = "follower"
	RelationshipFriend    Relationship = "friend"
)

// classify aFollowsB 为 A->B 边是否存在，bFollowsA 为 B->A 边是否存在
func classify(aFollowsB, bFollowsA bool) Relationship {
	switch {
	case aFollowsB && bFollowsA:
		return RelationshipFriend
	case aFollowsB:
		return RelationshipFollowing
	case bFollowsA:
		return RelationshipFollower
	default:
		return RelationshipNone
	}
}
