package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shoply/mallkit/pipeline"
)

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	extraBuilders   = make(map[string]NodeBuilder)
	extraBuildersMu sync.RWMutex
)

// Register 注册自定义 Node 的构建逻辑，供 Factory 与配置驱动使用。
// 内置 Node 类型由 Factory 自带，这里只用于扩展：
//
//	config.Register("rerank.boost", buildBoostNode)
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	extraBuildersMu.Lock()
	defer extraBuildersMu.Unlock()
	extraBuilders[typeName] = builder
}

// BuiltinTypes 返回内置 Node 类型列表（排序），用于错误提示与校验。
func BuiltinTypes() []string {
	types := []string{
		"recall.content",
		"recall.collaborative",
		"recall.demographic",
		"recall.copurchase",
		"recall.similar_items",
		"recall.fanout",
		"filter",
		"rerank.topn",
		"rerank.diversity",
		"feature.enrich",
	}
	sort.Strings(types)
	return types
}

// SupportedTypes 返回内置与已注册扩展的全部 Node 类型（排序）。
func SupportedTypes() []string {
	types := BuiltinTypes()
	extraBuildersMu.RLock()
	for t := range extraBuilders {
		types = append(types, t)
	}
	extraBuildersMu.RUnlock()
	sort.Strings(types)
	return types
}

// ValidatePipelineConfig 校验配置中所有 node 类型均已注册；
// 有未支持类型时返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	known := make(map[string]bool, len(supported))
	for _, t := range supported {
		known[t] = true
	}
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		if !known[nc.Type] {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
