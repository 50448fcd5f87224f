package consts

const (
	UserSimpleInfoKey       = "user:simple:info:"
	UserRelationDirtyKey    = "user:relation:dirty"
	UserRelationDirtyFlight = "user:relation:dirty:processing"
)

const (
	RelationCountJobLock = "lock:job:relation:count"
)

// TokenRevokedKey 用户中心注销 Token 时写入 Token 签名
const TokenRevokedKey = "token:revoked:"
