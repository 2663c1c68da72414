package core

import "time"

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultLimit 返回默认的 Top-N 截断上限
	DefaultLimit() int

	// DefaultMinJaccard 返回协同过滤选取同好购物者的最小 Jaccard 重叠度
	DefaultMinJaccard() float64

	// DefaultTimeout 返回召回源的默认超时时间
	DefaultTimeout() time.Duration
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultLimit() int {
	return 10
}

func (c *DefaultRecommendConfig) DefaultMinJaccard() float64 {
	return 0.1
}

func (c *DefaultRecommendConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}
