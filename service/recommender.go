// Package service 提供面向业务的推荐门面：在 Pipeline 之上封装
// 五个推荐入口，业务方不需要了解 Node/Source 的组合细节。
package service

import (
	"context"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/feature"
	"github.com/shoply/mallkit/filter"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/recall"
	"github.com/shoply/mallkit/rerank"
)

// RankedItem 是对外返回的推荐结果行。
type RankedItem struct {
	// ItemID 商品档案 ID
	ItemID string `json:"item_id"`

	// Name 展示名称
	Name string `json:"name"`

	// CategoryPath 类目路径（" > " 连接）
	CategoryPath string `json:"category_path"`

	// Score 当前策略的主排序分
	Score float64 `json:"score"`

	// CategoryScore 类目相似度明细分（内容/协同/相似推荐填充）
	CategoryScore float64 `json:"category_score,omitempty"`

	// DescriptionScore 描述相似度明细分（内容/协同/相似推荐填充）
	DescriptionScore float64 `json:"description_score,omitempty"`

	// OrderCount 购买/共现次数（人群/共购推荐填充）
	OrderCount int `json:"order_count,omitempty"`
}

// Recommender 是推荐门面。所有入口共用同一条结果链：
// 召回策略 → 过滤（设施后缀 + 自定义）→ 元信息补全 → Top-N 截断。
// 过滤一定发生在截断之前，设施约束不会挤占 Top-N 名额。
type Recommender struct {
	Catalog   *catalog.Snapshot
	Customers *catalog.CustomerTable
	Taxonomy  core.Taxonomy
	History   recall.HistoryStore

	// Config 提供默认值（limit / jaccard / 超时），nil 时用内置默认
	Config core.RecommendConfig

	// Filters 追加在设施过滤之后的自定义过滤器（黑名单、表达式规则等）
	Filters []filter.Filter

	// Provider 特征提供者（可选，用于补全展示信息之外的在线特征）
	Provider feature.Provider
}

func (r *Recommender) config() core.RecommendConfig {
	if r.Config != nil {
		return r.Config
	}
	return &core.DefaultRecommendConfig{}
}

// RecommendContentBased 基于内容的推荐："买过什么，就推相似的"。
// 结果按 (类目分, 描述分, 商品 ID) 排序，只包含名称以 facilityCode
// 结尾的商品，最多 limit 条（limit <= 0 时取默认值）。
func (r *Recommender) RecommendContentBased(
	ctx context.Context,
	customerID, facilityCode string,
	limit int,
) ([]RankedItem, error) {
	rctx := r.shopperContext(ctx, customerID, "content_based", facilityCode, limit)
	src := &recall.ContentBased{
		Catalog:  r.Catalog,
		Taxonomy: r.Taxonomy,
		History:  r.History,
	}
	return r.run(ctx, rctx, src)
}

// RecommendCollaborative 协同推荐："和我买过同样东西的人，还买了什么"。
func (r *Recommender) RecommendCollaborative(
	ctx context.Context,
	customerID, facilityCode string,
	limit int,
) ([]RankedItem, error) {
	rctx := r.shopperContext(ctx, customerID, "collaborative", facilityCode, limit)
	src := &recall.Collaborative{
		Catalog:    r.Catalog,
		Taxonomy:   r.Taxonomy,
		History:    r.History,
		MinJaccard: r.config().DefaultMinJaccard(),
	}
	return r.run(ctx, rctx, src)
}

// RecommendDemographic 人群推荐："同性别同年龄段的人买什么"。
// 结果按 (购买次数, 商品 ID) 排序。
func (r *Recommender) RecommendDemographic(
	ctx context.Context,
	gender, ageBracket, facilityCode string,
	limit int,
) ([]RankedItem, error) {
	rctx := r.paramsContext("demographic", facilityCode, limit)
	rctx.SetParam(core.ParamGender, gender)
	rctx.SetParam(core.ParamAgeBracket, ageBracket)
	src := &recall.Demographic{
		Catalog: r.Catalog,
		History: r.History,
	}
	return r.run(ctx, rctx, src)
}

// RecommendCoPurchased 共购推荐："买了它的人，同一单还买了什么"。
// 结果按 (共现次数, 商品 ID) 排序，目标商品本身不出现在结果里。
func (r *Recommender) RecommendCoPurchased(
	ctx context.Context,
	itemID, facilityCode string,
	limit int,
) ([]RankedItem, error) {
	rctx := r.paramsContext("item_detail", facilityCode, limit)
	rctx.SetParam(core.ParamTargetItem, itemID)
	src := &recall.CoPurchase{
		Catalog: r.Catalog,
		History: r.History,
	}
	return r.run(ctx, rctx, src)
}

// RecommendSimilarItems 相似商品推荐："和这件商品最像的商品"。
// 相对单件目标商品打类目分/描述分，目标商品本身不出现在结果里。
func (r *Recommender) RecommendSimilarItems(
	ctx context.Context,
	itemID, facilityCode string,
	limit int,
) ([]RankedItem, error) {
	rctx := r.paramsContext("item_detail", facilityCode, limit)
	rctx.SetParam(core.ParamTargetItem, itemID)
	src := &recall.SimilarItems{
		Catalog:  r.Catalog,
		Taxonomy: r.Taxonomy,
	}
	return r.run(ctx, rctx, src)
}

// RecommendForShopper 组合入口：内容 + 协同 + 人群三路并发召回，
// 按声明顺序去重合并后走统一的过滤/截断链。
func (r *Recommender) RecommendForShopper(
	ctx context.Context,
	customerID, facilityCode string,
	limit int,
) ([]RankedItem, error) {
	rctx := r.shopperContext(ctx, customerID, "home", facilityCode, limit)
	if rctx.Shopper != nil {
		rctx.SetParam(core.ParamGender, rctx.Shopper.Gender)
		rctx.SetParam(core.ParamAgeBracket, rctx.Shopper.AgeBracket)
	}

	src := &recall.Fanout{
		Sources: []recall.Source{
			&recall.ContentBased{Catalog: r.Catalog, Taxonomy: r.Taxonomy, History: r.History},
			&recall.Collaborative{
				Catalog: r.Catalog, Taxonomy: r.Taxonomy, History: r.History,
				MinJaccard: r.config().DefaultMinJaccard(),
			},
			&recall.Demographic{Catalog: r.Catalog, History: r.History},
		},
		Dedup:   true,
		Timeout: r.config().DefaultTimeout(),
	}
	return r.run(ctx, rctx, src)
}

// run 组装并执行结果链，再把 carrier Item 映射为对外结构。
func (r *Recommender) run(
	ctx context.Context,
	rctx *core.RecommendContext,
	src pipeline.Node,
) ([]RankedItem, error) {
	filters := make([]filter.Filter, 0, 1+len(r.Filters))
	filters = append(filters, &filter.FacilitySuffixFilter{})
	filters = append(filters, r.Filters...)

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			src,
			&filter.FilterNode{Filters: filters},
			&feature.EnrichNode{Catalog: r.Catalog, Provider: r.Provider},
			&rerank.TopNNode{N: r.config().DefaultLimit()},
		},
	}

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]RankedItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		row := RankedItem{
			ItemID:           it.ID,
			Name:             it.Name(),
			Score:            it.Score,
			CategoryScore:    it.Feature(core.FeatureCategoryScore),
			DescriptionScore: it.Feature(core.FeatureDescriptionScore),
		}
		if path, ok := it.Meta[core.MetaCategoryPath].(string); ok {
			row.CategoryPath = path
		}
		if n := it.Feature(core.FeatureOrderCount); n > 0 {
			row.OrderCount = int(n)
		} else if n := it.Feature(core.FeatureCoCount); n > 0 {
			row.OrderCount = int(n)
		}
		out = append(out, row)
	}
	return out, nil
}

// shopperContext 构建携带购物者画像的请求上下文。
func (r *Recommender) shopperContext(ctx context.Context, customerID, scene, facilityCode string, limit int) *core.RecommendContext {
	rctx := r.paramsContext(scene, facilityCode, limit)
	rctx.UserID = customerID

	profile := core.NewShopperProfile(customerID)
	if r.Customers != nil {
		if c, ok := r.Customers.Get(customerID); ok {
			profile.Gender = c.Gender
			profile.AgeBracket = c.AgeBracket
		}
	}
	if r.History != nil {
		if items, err := r.History.GetUserItems(ctx, customerID); err == nil {
			profile.PurchasedItems = items
		}
	}
	rctx.Shopper = profile
	return rctx
}

func (r *Recommender) paramsContext(scene, facilityCode string, limit int) *core.RecommendContext {
	if limit <= 0 {
		limit = r.config().DefaultLimit()
	}
	rctx := &core.RecommendContext{
		Scene:  scene,
		Params: make(map[string]any),
	}
	rctx.SetParam(core.ParamFacilityCode, facilityCode)
	rctx.SetParam(core.ParamLimit, limit)
	return rctx
}
