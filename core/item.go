package core

import "github.com/shoply/mallkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选商品在 Pipeline 各阶段流转的载体。
// ID 为商品档案 ID；Score 为当前策略的主排序分；Features 存放策略产出的
// 明细分（category_score / description_score / order_count 等）；
// Meta 存放展示所需信息（name / category_path）；Labels 用于解释与观测。
type Item struct {
	ID       string
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

// 各策略约定的 Features / Meta 键名。
const (
	FeatureCategoryScore    = "category_score"    // 类目相似度（Wu-Palmer）
	FeatureDescriptionScore = "description_score" // 描述相似度（embedding cosine）
	FeatureOrderCount       = "order_count"       // 人群购买次数
	FeatureCoCount          = "co_count"          // 同单共现次数

	MetaName         = "name"          // 展示名称
	MetaCategoryPath = "category_path" // 类目路径字符串（" > " 连接）
	MetaCategories   = "categories"    // 类目路径 []string
)

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// Name 取展示名称，未填充时返回空串。
func (it *Item) Name() string {
	if it.Meta == nil {
		return ""
	}
	if s, ok := it.Meta[MetaName].(string); ok {
		return s
	}
	return ""
}

// Feature 取明细分，未填充时返回 0。
func (it *Item) Feature(key string) float64 {
	if it.Features == nil {
		return 0
	}
	return it.Features[key]
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
