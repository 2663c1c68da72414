package filter

import (
	"context"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/recall"
)

// PurchasedFilter 过滤掉请求购物者已经买过的商品。
//
// 内容/协同策略在候选生成阶段已经排除了自购商品；这个过滤器用于
// 配置驱动的混合 Pipeline（例如人群推荐 + 热门兜底）里补上同样的
// 约束。rctx.UserID 为空时放行全部。
type PurchasedFilter struct {
	History recall.HistoryStore
}

func (f *PurchasedFilter) Name() string {
	return "filter.purchased"
}

func (f *PurchasedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.History == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	owned, err := f.History.GetUserItems(ctx, rctx.UserID)
	if err != nil {
		return false, err
	}
	for _, id := range owned {
		if id == item.ID {
			return true, nil
		}
	}
	return false, nil
}
