package config

import (
	"fmt"
	"time"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/feature"
	"github.com/shoply/mallkit/filter"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/pkg/conv"
	"github.com/shoply/mallkit/recall"
	"github.com/shoply/mallkit/rerank"
)

// Deps 是构建内置 Node 所需的运行期依赖。
// 配置文件只描述管道结构与参数，数据依赖在进程启动时注入。
type Deps struct {
	Catalog  *catalog.Snapshot
	Taxonomy core.Taxonomy
	History  recall.HistoryStore

	// Provider 特征提供者（可选，feature.enrich 节点使用）
	Provider feature.Provider
}

// Factory 返回包含所有内置 Node 的工厂，叠加 Register 注册的扩展类型。
//
// 使用示例：
//
//	cfg, _ := pipeline.LoadFromYAML("pipeline.yaml")
//	p, err := cfg.BuildPipeline(config.Factory(config.Deps{
//	    Catalog:  snapshot,
//	    Taxonomy: tax,
//	    History:  recall.NewIndexStore(idx),
//	}))
func Factory(deps Deps) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.content", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.ContentBased{
			Catalog:  deps.Catalog,
			Taxonomy: deps.Taxonomy,
			History:  deps.History,
		}, nil
	})

	f.Register("recall.collaborative", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Collaborative{
			Catalog:    deps.Catalog,
			Taxonomy:   deps.Taxonomy,
			History:    deps.History,
			MinJaccard: conv.ConfigGetFloat64(cfg, "min_jaccard", 0),
		}, nil
	})

	f.Register("recall.demographic", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Demographic{
			Catalog: deps.Catalog,
			History: deps.History,
		}, nil
	})

	f.Register("recall.copurchase", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.CoPurchase{
			Catalog: deps.Catalog,
			History: deps.History,
		}, nil
	})

	f.Register("recall.similar_items", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.SimilarItems{
			Catalog:  deps.Catalog,
			Taxonomy: deps.Taxonomy,
		}, nil
	})

	f.Register("recall.fanout", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFanoutNode(deps, cfg)
	})

	f.Register("filter", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFilterNode(deps, cfg)
	})

	f.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	f.Register("rerank.diversity", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.Diversity{MetaKey: conv.ConfigGet[string](cfg, "meta_key", "")}, nil
	})

	f.Register("feature.enrich", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &feature.EnrichNode{
			Catalog:       deps.Catalog,
			Provider:      deps.Provider,
			FillEmbedding: conv.ConfigGet[bool](cfg, "fill_embedding", false),
		}, nil
	})

	extraBuildersMu.RLock()
	for typeName, builder := range extraBuilders {
		f.Register(typeName, builder)
	}
	extraBuildersMu.RUnlock()

	return f
}

func buildFanoutNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceType, ok := sc.(string)
		if !ok {
			if m, ok := sc.(map[string]interface{}); ok {
				sourceType = conv.ConfigGet[string](m, "type", "")
			}
		}
		switch sourceType {
		case "content":
			sources = append(sources, &recall.ContentBased{
				Catalog:  deps.Catalog,
				Taxonomy: deps.Taxonomy,
				History:  deps.History,
			})
		case "collaborative":
			sources = append(sources, &recall.Collaborative{
				Catalog:  deps.Catalog,
				Taxonomy: deps.Taxonomy,
				History:  deps.History,
			})
		case "demographic":
			sources = append(sources, &recall.Demographic{
				Catalog: deps.Catalog,
				History: deps.History,
			})
		case "copurchase":
			sources = append(sources, &recall.CoPurchase{
				Catalog: deps.Catalog,
				History: deps.History,
			})
		default:
			return nil, fmt.Errorf("unknown source type: %q", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet[bool](cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

func buildFilterNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet[string](filterMap, "type", "")
		switch filterType {
		case "facility_suffix":
			filters = append(filters, &filter.FacilitySuffixFilter{
				Suffix: conv.ConfigGet[string](filterMap, "suffix", ""),
			})
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["item_ids"])
			if ids == nil {
				ids = []string{}
			}
			key := conv.ConfigGet[string](filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, key))
		case "purchased":
			filters = append(filters, &filter.PurchasedFilter{History: deps.History})
		case "expr":
			filters = append(filters, filter.NewExprFilter(
				conv.ConfigGet[string](filterMap, "expr", "")))
		default:
			return nil, fmt.Errorf("unknown filter type: %q", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}
