package kafka

import (
	"errors"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

var (
	ErrTableMismatch = errors.New("table name not match")
	ErrEmptyData     = errors.New("data is empty")
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据，仅包含被修改的列
	Old []map[string]interface{} `json:"old"`
}

// ToCanalMessage 将kafka消息转换为canal消息结构体
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, err
	}
	if canalMsg.IsDDL || canalMsg.Table != tableName {
		return nil, ErrTableMismatch
	}
	if len(canalMsg.Data) == 0 {
		return nil, ErrEmptyData
	}
	return &canalMsg, nil
}

// RowUint64 canal 默认以字符串输出列值，兼容数字形式
func RowUint64(row map[string]interface{}, column string) (uint64, bool) {
	switch v := row[column].(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		return id, err == nil
	case float64:
		return uint64(v), v >= 0
	default:
		return 0, false
	}
}

func RowString(row map[string]interface{}, column string) (string, bool) {
	v, ok := row[column].(string)
	return v, ok && v != ""
}
