package recall

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/utils"
)

// Collaborative 是协同打分策略："和我买过同样东西的人，还买了什么"。
//
// 同好判定：两个购物者已购集合的 Jaccard 重叠度 >= MinJaccard。
// 候选集为同好买过而目标购物者没买过的商品；打分仍然相对目标购物者
// 自己的历史（复用内容策略的类目分/描述分），即"相似的人买了它"之后
// 还要过"它和我买过的东西相关"这一关，类目分为 0 一样丢弃。
//
// 同好的查找走 item → purchasers 倒排：只有与目标购物者至少共享一件
// 商品的人才可能达到阈值，不必全量扫描客户表。
type Collaborative struct {
	Catalog  *catalog.Snapshot
	Taxonomy core.Taxonomy
	History  HistoryStore

	// MinJaccard 是同好判定的最小重叠度，必须为正；<= 0 时取默认 0.1
	MinJaccard float64
}

func (r *Collaborative) Name() string        { return "recall.collaborative" }
func (r *Collaborative) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Collaborative) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Collaborative) Recall(
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

	minJaccard := r.MinJaccard
	if minJaccard <= 0 {
		minJaccard = (&core.DefaultRecommendConfig{}).DefaultMinJaccard()
	}

	// 1. 经 item → purchasers 倒排收集候选同好
	peerSeen := make(map[string]struct{})
	candidateItems := make(map[string]struct{})
	for id := range ownedSet {
		purchasers, err := r.History.GetItemPurchasers(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, peerID := range purchasers {
			if peerID == rctx.UserID {
				continue
			}
			if _, ok := peerSeen[peerID]; ok {
				continue
			}
			peerSeen[peerID] = struct{}{}

			peerItems, err := r.History.GetUserItems(ctx, peerID)
			if err != nil {
				return nil, err
			}
			if jaccard(ownedSet, peerItems) < minJaccard {
				continue
			}

			// 2. 同好买过而我没买过的商品进入候选
			for _, itemID := range peerItems {
				if _, ok := ownedSet[itemID]; ok {
					continue
				}
				candidateItems[itemID] = struct{}{}
			}
		}
	}

	// 3. 候选仍按目标购物者自己的历史打分
	out := make([]*core.Item, 0, len(candidateItems))
	for id := range candidateItems {
		profile, ok := r.Catalog.Get(id)
		if !ok {
			continue
		}

		catScore, descScore := scoreAgainstHistory(r.Taxonomy, owned, profile)
		if catScore <= 0 {
			continue
		}

		it := newCatalogItem(profile)
		it.Score = catScore
		it.Features[core.FeatureCategoryScore] = catScore
		it.Features[core.FeatureDescriptionScore] = descScore
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}

	sortBySimilarity(out)
	return out, nil
}

// jaccard 计算已购集合与另一位购物者购买序列的 Jaccard 重叠度。
func jaccard(ownedSet map[string]struct{}, peerItems []string) float64 {
	peerSet := make(map[string]struct{}, len(peerItems))
	for _, id := range peerItems {
		peerSet[id] = struct{}{}
	}
	if len(ownedSet) == 0 || len(peerSet) == 0 {
		return 0
	}

	intersection := 0
	for id := range peerSet {
		if _, ok := ownedSet[id]; ok {
			intersection++
		}
	}
	union := len(ownedSet) + len(peerSet) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
