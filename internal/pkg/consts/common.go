package consts

const (
	DefaultRelationLimit = 20
	MaxRelationLimit     = 100
)

// canal 变更类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

const (
	UserTable       = "users"
	UserFollowTable = "user_follows"
)

// CtxUserID 鉴权通过后写入 gin.Context 的对外 user_id
const CtxUserID = "user_id"
