package redis

// Redis Key 定义与构造器
// 统一管理业务使用的 Redis Key，避免散落的魔法字符串，便于统一维护与变更。

const (
	// PrefixActiveRound：当前活动回合快照缓存，用于前端倒计时等快速查询
	PrefixActiveRound = "round:active"
	// PrefixRoundResult：开奖结果缓存（回合ID -> 中奖号码 CSV）
	PrefixRoundResult = "round:result:"
	// PrefixRateLimit：滑动窗口限流 Key 的前缀
	PrefixRateLimit = "ratelimit:"
)

// ActiveRoundKey：活动回合快照缓存 Key
func ActiveRoundKey() string { return PrefixActiveRound }

// RoundResultKey：构造开奖结果缓存 Key。形如：round:result:{round_id}
func RoundResultKey(roundID string) string { return PrefixRoundResult + roundID }

// RateLimitKey：构造限流 Key。形如：ratelimit:{dimension}:{id}
func RateLimitKey(dimension, id string) string { return PrefixRateLimit + dimension + ":" + id }
