// Package feature 提供特征获取能力：商品 embedding、顾客人群属性等。
//
// 接口定义在本包，具体实现有：
//   - FeastProvider：从 Feast Feature Server 在线获取
//   - StoreProvider：从 core.Store 读取（离线物化结果）
//   - CachedProvider：在任意 Provider 之上叠加内存缓存
package feature

import (
	"context"

	"github.com/shoply/mallkit/core"
)

// Provider 是特征提供者接口。
type Provider interface {
	// Name 返回提供者名称（用于日志）
	Name() string

	// ItemEmbedding 获取商品描述 embedding，特征缺失返回 ErrFeatureNotFound
	ItemEmbedding(ctx context.Context, itemID string) ([]float64, error)

	// ShopperDemographics 获取顾客的性别与年龄段，特征缺失返回 ErrFeatureNotFound
	ShopperDemographics(ctx context.Context, userID string) (gender, ageBracket string, err error)
}

// ErrFeatureNotFound 表示特征不存在
var ErrFeatureNotFound = core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "feature: not found")

// IsFeatureNotFound 检查错误是否为特征不存在
func IsFeatureNotFound(err error) bool {
	domainErr := core.GetDomainError(err)
	return domainErr != nil && domainErr.Module == core.ModuleFeature && domainErr.Code == core.ErrorCodeNotFound
}
