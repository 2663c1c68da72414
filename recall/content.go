package recall

import (
	"context"
	"sort"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/utils"
	"github.com/shoply/mallkit/pkg/vecmath"
)

// ContentBased 是基于内容的打分策略："我买过什么，就推相似的"。
//
// 对购物者已购集合 S 之外的每个商品 c：
//   - 类目分 = max over s in S of PathSimilarity(path(s), path(c))
//   - 描述分 = max over s in S of Cosine(embedding(s), embedding(c))
//
// 取最大值意味着只要有一件强相关的历史购买，就足以把候选带进结果，
// 哪怕其余历史毫不相关。类目分为 0 的候选直接丢弃——没有任何类目
// 关联时，描述分再高也不可信。
//
// 未知购物者（无购买记录）返回空结果，不报错。
type ContentBased struct {
	Catalog  *catalog.Snapshot
	Taxonomy core.Taxonomy
	History  HistoryStore
}

func (r *ContentBased) Name() string        { return "recall.content" }
func (r *ContentBased) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ContentBased) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ContentBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.Taxonomy == nil || r.History == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	ownedIDs, err := r.History.GetUserItems(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return nil, nil
	}

	ownedSet, owned := resolveOwned(r.Catalog, ownedIDs)

	out := make([]*core.Item, 0, 32)
	for _, id := range r.Catalog.IDs() {
		if _, ok := ownedSet[id]; ok {
			continue
		}
		profile, _ := r.Catalog.Get(id)

		catScore, descScore := scoreAgainstHistory(r.Taxonomy, owned, profile)
		if catScore <= 0 {
			continue
		}

		it := newCatalogItem(profile)
		it.Score = catScore
		it.Features[core.FeatureCategoryScore] = catScore
		it.Features[core.FeatureDescriptionScore] = descScore
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}

	sortBySimilarity(out)
	return out, nil
}

// resolveOwned 把已购商品 ID 解析成集合视图 + 档案列表。
// 不在档案中的已购商品仍参与排除，但无法贡献相似度。
func resolveOwned(snapshot *catalog.Snapshot, ownedIDs []string) (map[string]struct{}, []catalog.ItemProfile) {
	set := make(map[string]struct{}, len(ownedIDs))
	profiles := make([]catalog.ItemProfile, 0, len(ownedIDs))
	for _, id := range ownedIDs {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		if p, ok := snapshot.Get(id); ok {
			profiles = append(profiles, p)
		}
	}
	return set, profiles
}

// scoreAgainstHistory 对候选商品计算相对购买历史的两个明细分，各取历史最大值。
// 类目节点不在图中、embedding 缺失的历史购买贡献 0。
func scoreAgainstHistory(tax core.Taxonomy, owned []catalog.ItemProfile, cand catalog.ItemProfile) (catScore, descScore float64) {
	for _, s := range owned {
		if sim := tax.PathSimilarity(s.Categories, cand.Categories); sim > catScore {
			catScore = sim
		}
		if sim := vecmath.Cosine(s.Embedding, cand.Embedding); sim > descScore {
			descScore = sim
		}
	}
	return catScore, descScore
}

// sortBySimilarity 按 (类目分 desc, 描述分 desc, 商品 ID asc) 排序。
// 末位的 ID 升序是显式的确定性锚点，保证同分结果可复现、可测试。
func sortBySimilarity(items []*core.Item) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := items[i].Feature(core.FeatureCategoryScore), items[j].Feature(core.FeatureCategoryScore)
		if ci != cj {
			return ci > cj
		}
		di, dj := items[i].Feature(core.FeatureDescriptionScore), items[j].Feature(core.FeatureDescriptionScore)
		if di != dj {
			return di > dj
		}
		return items[i].ID < items[j].ID
	})
}

// sortByCount 按 (次数 desc, 商品 ID asc) 排序，用于人群/共现两个计数型策略。
func sortByCount(items []*core.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
