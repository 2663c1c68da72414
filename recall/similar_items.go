package recall

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/utils"
	"github.com/shoply/mallkit/pkg/vecmath"
)

// SimilarItems 是商品详情页的相似商品策略：以单个目标商品为基准，
// 对全量档案做类目/描述双路相似度打分。
//
// 目标商品 ID 从 rctx.Params[core.ParamTargetItem] 读取。目标不存在、
// 或档案缺少名称/类目时返回空结果。目标自身永远不会出现在结果里。
type SimilarItems struct {
	Catalog  *catalog.Snapshot
	Taxonomy core.Taxonomy
}

func (r *SimilarItems) Name() string        { return "recall.similar_items" }
func (r *SimilarItems) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *SimilarItems) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *SimilarItems) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.Taxonomy == nil || rctx == nil {
		return nil, nil
	}

	targetID := rctx.ParamString(core.ParamTargetItem)
	if targetID == "" {
		return nil, nil
	}
	target, ok := r.Catalog.Get(targetID)
	if !ok || target.Name == "" || len(target.Categories) == 0 {
		return nil, nil
	}

	out := make([]*core.Item, 0, 32)
	for _, id := range r.Catalog.IDs() {
		if id == targetID {
			continue
		}
		profile, _ := r.Catalog.Get(id)
		if profile.Name == "" || len(profile.Categories) == 0 {
			continue
		}

		catScore := r.Taxonomy.PathSimilarity(target.Categories, profile.Categories)
		if catScore <= 0 {
			continue
		}
		descScore := vecmath.Cosine(target.Embedding, profile.Embedding)

		it := newCatalogItem(profile)
		it.Score = catScore
		it.Features[core.FeatureCategoryScore] = catScore
		it.Features[core.FeatureDescriptionScore] = descScore
		it.PutLabel("recall_source", utils.Label{Value: "similar_items", Source: "recall"})
		out = append(out, it)
	}

	sortBySimilarity(out)
	return out, nil
}
