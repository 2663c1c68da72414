package core

import "github.com/shoply/mallkit/pkg/utils"

// 请求级 Params 的约定键名。策略与过滤/截断节点都从这里取请求参数，
// 保证同一套 Pipeline 既能被 service 门面驱动，也能被配置驱动。
const (
	ParamFacilityCode = "facility_code"  // 设施编号：商品名须以它结尾
	ParamTargetItem   = "target_item_id" // 共现/相似推荐的目标商品
	ParamGender       = "gender"         // 人群推荐：性别
	ParamAgeBracket   = "age_bracket"    // 人群推荐：年龄段
	ParamLimit        = "limit"          // Top-N 截断上限
)

// RecommendContext 承载购物者/场景/请求参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string // 购物者 ID（人群/共现推荐可为空）
	Scene  string // 场景标识，例如 "home" / "item_detail"

	// Shopper 是强类型购物者画像（可选，service 门面会尽量填充）
	Shopper *ShopperProfile

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数，约定键见 Param* 常量
	Params map[string]any
}

// Param 取请求参数，未设置时返回 nil。
func (rctx *RecommendContext) Param(key string) any {
	if rctx == nil || rctx.Params == nil {
		return nil
	}
	return rctx.Params[key]
}

// ParamString 取字符串型请求参数，未设置或类型不符时返回空串。
func (rctx *RecommendContext) ParamString(key string) string {
	if s, ok := rctx.Param(key).(string); ok {
		return s
	}
	return ""
}

// SetParam 设置请求参数。
func (rctx *RecommendContext) SetParam(key string, value any) {
	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[key] = value
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
