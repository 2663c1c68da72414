package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/history"
	"github.com/shoply/mallkit/pipeline"
	"github.com/shoply/mallkit/recall"
	"github.com/shoply/mallkit/taxonomy"
)

func testDeps(t *testing.T) Deps {
	t.Helper()

	tax, err := taxonomy.New([]taxonomy.Edge{
		{Parent: "생활용품", Child: "욕실용품"},
		{Parent: "욕실용품", Child: "샴푸"},
	})
	if err != nil {
		t.Fatalf("构建类目图失败: %v", err)
	}

	snapshot := catalog.NewSnapshot(map[string]catalog.ItemProfile{
		"8001": {ID: "8001", Name: "샴푸 17", Categories: []string{"생활용품", "욕실용품", "샴푸"}, Embedding: []float64{1, 0}},
		"8002": {ID: "8002", Name: "린스 17", Categories: []string{"생활용품", "욕실용품", "샴푸"}, Embedding: []float64{0.9, 0.1}},
	})

	customers := []catalog.Customer{
		{ID: "c1", Gender: "F", AgeBracket: "40"},
		{ID: "c2", Gender: "F", AgeBracket: "40"},
	}
	orders := []catalog.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", ItemID: "8001"},
		{OrderID: "o2", CustomerID: "c2", ItemID: "8001"},
		{OrderID: "o2", CustomerID: "c2", ItemID: "8002"},
	}

	return Deps{
		Catalog:  snapshot,
		Taxonomy: tax,
		History:  &recall.IndexStore{Index: history.Build(orders, catalog.NewCustomerTable(customers))},
	}
}

func TestFactoryBuiltinTypes(t *testing.T) {
	f := Factory(testDeps(t))

	// 每个内置类型都能被构建（需要参数的给最小配置）
	configs := map[string]map[string]interface{}{
		"recall.fanout": {"sources": []interface{}{"content", "demographic"}},
		"filter":        {"filters": []interface{}{map[string]interface{}{"type": "facility_suffix"}}},
	}
	for _, typ := range BuiltinTypes() {
		node, err := f.Build(typ, configs[typ])
		if err != nil {
			t.Errorf("构建内置节点 %s 失败: %v", typ, err)
			continue
		}
		if node == nil {
			t.Errorf("构建内置节点 %s 返回 nil", typ)
		}
	}
}

func TestFactoryUnknownType(t *testing.T) {
	f := Factory(testDeps(t))
	if _, err := f.Build("no.such.type", nil); err == nil {
		t.Error("未知节点类型应报错")
	}
}

func TestRegisterExtraBuilder(t *testing.T) {
	Register("test.noop", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerankNoop{}, nil
	})

	f := Factory(testDeps(t))
	node, err := f.Build("test.noop", nil)
	if err != nil {
		t.Fatalf("构建扩展节点失败: %v", err)
	}
	if node.Name() != "test.noop" {
		t.Errorf("Name = %q, want test.noop", node.Name())
	}

	found := false
	for _, typ := range SupportedTypes() {
		if typ == "test.noop" {
			found = true
		}
	}
	if !found {
		t.Error("SupportedTypes 应包含注册的扩展类型")
	}
}

func TestValidatePipelineConfig(t *testing.T) {
	var cfg pipeline.Config
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "recall.content"},
		{Type: "rerank.topn"},
	}
	if err := ValidatePipelineConfig(&cfg); err != nil {
		t.Errorf("合法配置不应报错: %v", err)
	}

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{Type: "bogus"})
	if err := ValidatePipelineConfig(&cfg); err == nil {
		t.Error("未支持类型应报错")
	}
}

func TestConfigDrivenPipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	yaml := `
pipeline:
  name: home_feed
  nodes:
    - type: recall.content
    - type: filter
      config:
        filters:
          - type: facility_suffix
          - type: purchased
    - type: rerank.topn
      config:
        n: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML 失败: %v", err)
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("配置校验失败: %v", err)
	}

	p, err := cfg.BuildPipeline(Factory(testDeps(t)))
	if err != nil {
		t.Fatalf("BuildPipeline 失败: %v", err)
	}

	rctx := &core.RecommendContext{UserID: "c1", Params: make(map[string]any)}
	rctx.SetParam(core.ParamFacilityCode, "17")

	items, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	// c1 买过 8001，内容策略推相似的 8002
	if len(items) != 1 || items[0].ID != "8002" {
		got := make([]string, 0, len(items))
		for _, it := range items {
			got = append(got, it.ID)
		}
		t.Errorf("配置驱动推荐结果 = %v, want [8002]", got)
	}
}

func TestBuildFanoutNodeInvalidSource(t *testing.T) {
	f := Factory(testDeps(t))
	_, err := f.Build("recall.fanout", map[string]interface{}{
		"sources": []interface{}{"bogus"},
	})
	if err == nil {
		t.Error("未知召回源应报错")
	}
}

type rerankNoop struct{}

func (n *rerankNoop) Name() string        { return "test.noop" }
func (n *rerankNoop) Kind() pipeline.Kind { return pipeline.KindReRank }
func (n *rerankNoop) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return items, nil
}
