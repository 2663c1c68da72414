package filter

import (
	"context"
	"encoding/json"

	"github.com/shoply/mallkit/core"
)

// BlacklistFilter 是黑名单过滤器：下架、停售或运营手动屏蔽的商品
// 不进推荐结果。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单商品 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单商品 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string, store BlacklistStore, key string) *BlacklistFilter {
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err == nil {
			for _, id := range blacklist {
				if item.ID == id {
					return true, nil
				}
			}
		}
	}

	return false, nil
}

// StoreBlacklist 基于 core.Store 的黑名单实现，值为 JSON 编码的商品 ID 列表。
// key 不存在视为空黑名单。
type StoreBlacklist struct {
	Store core.Store
}

func (s *StoreBlacklist) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := s.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

var _ BlacklistStore = (*StoreBlacklist)(nil)
