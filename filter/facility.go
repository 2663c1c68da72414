package filter

import (
	"context"
	"strings"

	"github.com/shoply/mallkit/core"
)

// FacilitySuffixFilter 是设施约束过滤器：只保留展示名以指定设施编号
// 结尾的商品，保证结果全部属于请求方所在的设施/门店。
//
// 设施编号优先取固定的 Suffix，为空时从请求参数
// rctx.Params[core.ParamFacilityCode] 读取；两者都为空则放行全部。
// 候选缺少展示名时一律过滤——后缀约束对外是硬保证，宁缺毋滥。
type FacilitySuffixFilter struct {
	// Suffix 是固定的设施编号（可选），常用于配置驱动的单设施 Pipeline
	Suffix string
}

func (f *FacilitySuffixFilter) Name() string {
	return "filter.facility_suffix"
}

func (f *FacilitySuffixFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	suffix := f.Suffix
	if suffix == "" && rctx != nil {
		suffix = rctx.ParamString(core.ParamFacilityCode)
	}
	if suffix == "" {
		return false, nil
	}

	name := item.Name()
	if name == "" {
		return true, nil
	}
	return !strings.HasSuffix(name, suffix), nil
}
