package filter

import (
	"context"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/pkg/dsl"
)

// ExprFilter 是表达式过滤器：规则命中（表达式为 true）的商品会被过滤，
// 表达式使用 CEL 语法，由运营在配置里维护。
//
// 示例：
//   - `item.score < 0.1` → 过滤掉相似度过低的商品
//   - `label.recall_source == "demographic" && item.features.order_count < 2.0`
type ExprFilter struct {
	// Expr 是 CEL 过滤表达式，为空表示不过滤
	Expr string
}

// NewExprFilter 创建一个表达式过滤器。
func NewExprFilter(expr string) *ExprFilter {
	return &ExprFilter{Expr: expr}
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	if item == nil {
		return true, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
