package rerank

import (
	"context"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
)

// Diversity 是一个简单的多样性重排节点：按类目路径去重，
// 每条类目路径只保留排序最靠前的一个商品。
// 类目来源优先级：
// - label[key].Value
// - meta[key] (string)
type Diversity struct {
	// MetaKey 默认 "category_path"
	MetaKey string
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.MetaKey
	if key == "" {
		key = core.MetaCategoryPath
	}

	seen := make(map[string]bool, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		path := ""
		if it.Labels != nil {
			if lbl, ok := it.Labels[key]; ok {
				path = lbl.Value
			}
		}
		if path == "" && it.Meta != nil {
			if v, ok := it.Meta[key]; ok {
				if s, ok := v.(string); ok {
					path = s
				}
			}
		}

		if path == "" {
			out = append(out, it)
			continue
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, it)
	}

	return out, nil
}
