package feature

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
)

// EnrichNode 是展示信息补全节点：候选在召回/过滤阶段只携带 ID 与分数时，
// 从商品档案补全名称与类目路径，从特征提供者补全缺失的 embedding。
// 通常放在管道末尾（截断之后），避免给被过滤掉的候选做无用功。
type EnrichNode struct {
	// Catalog 商品档案快照，用于补全 name / category_path
	Catalog *catalog.Snapshot

	// Provider 特征提供者（可选），用于补全 embedding 之类的在线特征
	Provider Provider

	// FillEmbedding 是否补全 embedding 到 Meta["embedding"]
	FillEmbedding bool
}

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any)
		}

		if n.Catalog != nil {
			if profile, ok := n.Catalog.Get(it.ID); ok {
				if _, has := it.Meta[core.MetaName]; !has {
					it.Meta[core.MetaName] = profile.Name
				}
				if _, has := it.Meta[core.MetaCategoryPath]; !has {
					it.Meta[core.MetaCategoryPath] = profile.CategoryPath()
				}
				if _, has := it.Meta[core.MetaCategories]; !has {
					it.Meta[core.MetaCategories] = profile.Categories
				}
			}
		}

		if n.FillEmbedding && n.Provider != nil {
			if _, has := it.Meta["embedding"]; !has {
				embedding, err := n.Provider.ItemEmbedding(ctx, it.ID)
				if err == nil {
					it.Meta["embedding"] = embedding
				}
				// 特征缺失不阻塞推荐
			}
		}
	}

	return items, nil
}
