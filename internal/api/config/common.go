package config

// Config 配置主体
type Config struct {
	Server                   ServerConfig       `mapstructure:"server"`
	DB                       DBConfig           `mapstructure:"database"`
	Redis                    RedisConfig        `mapstructure:"redis"`
	JWT                      JWTConfig          `mapstructure:"jwt"`
	Relation                 RelationConfig     `mapstructure:"relation"`
	Log                      LogConfig          `mapstructure:"log"`
	Elastic                  ElasticConfig      `mapstructure:"elastic"`
	Cron                     CronConfig         `mapstructure:"cron"`
	Kafka                    KafkaConfig        `mapstructure:"kafka"`
	KafkaUserConsumer        KafkaConsumerTopic `mapstructure:"kafka_user_consumer"`
	KafkaUserFollowsConsumer KafkaConsumerTopic `mapstructure:"kafka_user_follow_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// JWTConfig 鉴权令牌校验配置，签发由用户中心负责
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// RelationConfig 关系列表分页配置
type RelationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
	UserCacheTTL int `mapstructure:"user_cache_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level           string `mapstructure:"level"`
	LogstashAddress string `mapstructure:"logstash_address"`
	LogstashIndex   string `mapstructure:"logstash_index"`
	LogstashToken   string `mapstructure:"logstash_token"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Enable        bool   `mapstructure:"enable"`
	Address       string `mapstructure:"address"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	RelationIndex string `mapstructure:"relation_index"`
}

// CronConfig 定时任务配置
type CronConfig struct {
	RelationCountSpec string `mapstructure:"relation_count_spec"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaConsumerTopic 单个消费者组订阅的 topic
type KafkaConsumerTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
