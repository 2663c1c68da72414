package recall

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
)

// Source 表示一个可复用的打分策略（内容相似/协同/人群/同单共现/...）。
// 每个策略同时实现 pipeline.Node，可以单独驱动，也可以被 Fanout 并发编排。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// newCatalogItem 以商品档案为底构建候选载体，填充下游过滤与展示所需的元信息。
func newCatalogItem(p catalog.ItemProfile) *core.Item {
	it := core.NewItem(p.ID)
	it.Meta[core.MetaName] = p.Name
	it.Meta[core.MetaCategoryPath] = p.CategoryPath()
	it.Meta[core.MetaCategories] = p.Categories
	return it
}
