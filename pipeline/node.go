package pipeline

import (
	"context"

	"github.com/shoply/mallkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：各打分策略生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不满足业务约束的候选（设施后缀等）
	KindReRank      Kind = "rerank"      // 重排阶段：截断 / 多样性调整
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充展示元信息等
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态：召回节点忽略输入自行产出，
// 过滤节点缩减，重排节点调序或截断。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
