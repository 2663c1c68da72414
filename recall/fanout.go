package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/utils"
)

// Fanout 并发执行多个打分策略并合并结果，常用于首页同时出内容相似/
// 协同/人群三路推荐再统一过滤截断的场景。
//
// 单个策略超时或出错时只丢弃该路结果，不中断其他策略。合并按 Sources
// 的声明顺序进行，与各路完成的先后无关，结果顺序确定。
type Fanout struct {
	Sources       []Source
	Dedup         bool          // 按商品 ID 去重（保留先声明的来源）
	Timeout       time.Duration // 每个策略的超时时间，0 表示不限制
	MaxConcurrent int           // 最大并发数，0 表示不限制
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 每路结果落到自己的槽位，合并时按声明顺序读取，避免并发完成
	// 顺序影响输出
	results := make([][]*core.Item, len(n.Sources))

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		slot, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 单路失败只丢弃该路，不拖垮整个请求
				return nil
			}

			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall.fanout"})
			}
			results[slot] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return n.merge(results), nil
}

// merge 按声明顺序拼接各路结果；Dedup 时相同 ID 保留先出现者并合并 Labels。
func (n *Fanout) merge(results [][]*core.Item) []*core.Item {
	total := 0
	for _, items := range results {
		total += len(items)
	}

	out := make([]*core.Item, 0, total)
	if !n.Dedup {
		for _, items := range results {
			out = append(out, items...)
		}
		return out
	}

	seen := make(map[string]*core.Item, total)
	for _, items := range results {
		for _, it := range items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out
}
