package rerank

import (
	"context"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/conv"
)

// TopNNode 是 Top-N 截断节点，放在所有过滤节点之后，
// 保证截断发生在过滤之后：先把不合规的候选完整剔除，再取前 N 个。
//
// 每次请求可以通过 rctx.Params["limit"] 覆盖默认的 N。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.ContentBased{...},       // 召回 + 排序
//	        filter.NewFilterNode(...),       // 过滤
//	        &rerank.TopNNode{N: 10},         // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量
	// N <= 0 时不截断，返回所有商品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil {
		if v := rctx.Param(core.ParamLimit); v != nil {
			if l, ok := conv.ToInt(v); ok {
				limit = l
			}
		}
	}

	if limit <= 0 {
		return items, nil
	}
	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
