package pipeline

import (
	"context"

	"github.com/shoply/mallkit/core"
)

// Pipeline 是 mallkit 的核心抽象：把一次推荐拆成可组合的 Node 链。
// 典型链路：召回策略 → 设施后缀过滤 → 元信息补全 → Top-N 截断。
// 过滤节点排在截断节点之前，保证"先过滤、后截断"——被过滤掉的候选
// 不会占用 Top-N 名额。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
