package recall

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/utils"
)

// Demographic 是人群聚合策略："同性别同年龄段的人买得最多的商品"。
//
// 订单集先按 (gender, age_bracket) 精确匹配收窄，再按商品计数。
// 人群从 rctx.Params 读取（core.ParamGender / core.ParamAgeBracket）。
// 没有任何匹配订单的人群返回空结果。排序按次数降序，同次数按商品
// ID 升序——计数结构不提供稳定顺序，确定性要在这里显式给出。
type Demographic struct {
	Catalog *catalog.Snapshot
	History HistoryStore
}

func (r *Demographic) Name() string        { return "recall.demographic" }
func (r *Demographic) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Demographic) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Demographic) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.History == nil || rctx == nil {
		return nil, nil
	}

	gender := rctx.ParamString(core.ParamGender)
	ageBracket := rctx.ParamString(core.ParamAgeBracket)
	if gender == "" || ageBracket == "" {
		return nil, nil
	}

	counts, err := r.History.CountByCohort(ctx, gender, ageBracket)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(counts))
	for id, count := range counts {
		profile, ok := r.Catalog.Get(id)
		if !ok {
			continue // 档案之外的商品不可展示，跳过
		}

		it := newCatalogItem(profile)
		it.Score = float64(count)
		it.Features[core.FeatureOrderCount] = float64(count)
		it.PutLabel("recall_source", utils.Label{Value: "demographic", Source: "recall"})
		out = append(out, it)
	}

	sortByCount(out)
	return out, nil
}
