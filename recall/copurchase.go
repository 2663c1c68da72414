package recall

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/history"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/utils"
)

// CoPurchase 是同单共现策略："买了它的人，同一单里还买了什么"。
//
// 订单按订单号聚成购物篮；每个包含目标商品的购物篮，给篮内其余每次
// 商品出现 +1。目标商品永远不给自己计数，因此也永远不会出现在结果
// 里。目标商品 ID 从 rctx.Params[core.ParamTargetItem] 读取。
//
// 这里不做任何截断：设施后缀过滤与 Top-N 截断由 Pipeline 中后续节点
// 完成，保证被过滤掉的高分候选不会占用名额。
type CoPurchase struct {
	Catalog *catalog.Snapshot
	History HistoryStore
}

func (r *CoPurchase) Name() string        { return "recall.copurchase" }
func (r *CoPurchase) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CoPurchase) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *CoPurchase) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.History == nil || rctx == nil {
		return nil, nil
	}

	targetID := rctx.ParamString(core.ParamTargetItem)
	if targetID == "" {
		return nil, nil
	}

	baskets, err := r.History.GetBaskets(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, basket := range baskets {
		if !basketContains(basket, targetID) {
			continue
		}
		for _, itemID := range basket.Items {
			if itemID == targetID {
				continue
			}
			counts[itemID]++
		}
	}

	out := make([]*core.Item, 0, len(counts))
	for id, count := range counts {
		profile, ok := r.Catalog.Get(id)
		if !ok {
			continue
		}

		it := newCatalogItem(profile)
		it.Score = float64(count)
		it.Features[core.FeatureCoCount] = float64(count)
		it.PutLabel("recall_source", utils.Label{Value: "copurchase", Source: "recall"})
		out = append(out, it)
	}

	sortByCount(out)
	return out, nil
}

func basketContains(b history.Basket, itemID string) bool {
	for _, id := range b.Items {
		if id == itemID {
			return true
		}
	}
	return false
}
