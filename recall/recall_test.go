package recall

import (
	"context"
	"testing"

	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/history"
	"github.com/shoply/mallkit/taxonomy"
)

// 共享测试数据：两棵独立的类目树，跨树商品的类目分为 0。
//
//	생활용품 ── 욕실용품 ── {샴푸, 바디워시}
//	식품 ── 과자
func newFixture(t *testing.T) (*catalog.Snapshot, *taxonomy.Taxonomy, *IndexStore) {
	t.Helper()

	tax, err := taxonomy.New([]taxonomy.Edge{
		{Parent: "생활용품", Child: "욕실용품"},
		{Parent: "욕실용품", Child: "샴푸"},
		{Parent: "욕실용품", Child: "바디워시"},
		{Parent: "식품", Child: "과자"},
	})
	if err != nil {
		t.Fatalf("构建类目图失败: %v", err)
	}

	snapshot := catalog.NewSnapshot(map[string]catalog.ItemProfile{
		"8001": {ID: "8001", Name: "샴푸 17", Categories: []string{"생활용품", "욕실용품", "샴푸"}, Embedding: []float64{1, 0}},
		"8002": {ID: "8002", Name: "바디워시 17", Categories: []string{"생활용품", "욕실용품", "바디워시"}, Embedding: []float64{0.9, 0.1}},
		"8003": {ID: "8003", Name: "과자 17", Categories: []string{"식품", "과자"}, Embedding: []float64{0, 1}},
		"8004": {ID: "8004", Name: "샴푸비누 17", Categories: []string{"생활용품", "욕실용품", "샴푸"}}, // 无 embedding
		"8005": {ID: "8005", Name: "과자 23", Categories: []string{"식품", "과자"}, Embedding: []float64{0, 1}},
	})

	customers := catalog.NewCustomerTable([]catalog.Customer{
		{ID: "c1", Gender: "F", AgeBracket: "40"},
		{ID: "c2", Gender: "F", AgeBracket: "40"},
		{ID: "c3", Gender: "M", AgeBracket: "30"},
		{ID: "c4", Gender: "F", AgeBracket: "40"},
	})
	orders := []catalog.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", ItemID: "8001"},
		{OrderID: "o2", CustomerID: "c2", ItemID: "8001"},
		{OrderID: "o2", CustomerID: "c2", ItemID: "8002"},
		{OrderID: "o3", CustomerID: "c3", ItemID: "8003"},
		{OrderID: "o4", CustomerID: "c4", ItemID: "8003"},
		{OrderID: "o5", CustomerID: "c4", ItemID: "8005"},
	}

	return snapshot, tax, &IndexStore{Index: history.Build(orders, customers)}
}

func shopperCtx(userID string) *core.RecommendContext {
	return &core.RecommendContext{UserID: userID, Params: make(map[string]any)}
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestContentBased(t *testing.T) {
	snapshot, tax, hist := newFixture(t)
	src := &ContentBased{Catalog: snapshot, Taxonomy: tax, History: hist}

	items, err := src.Recall(context.Background(), shopperCtx("c1"))
	if err != nil {
		t.Fatalf("Recall 失败: %v", err)
	}

	// c1 买过 8001：同树的 8002/8004 入选，跨树的 8003/8005 类目分为 0 被丢弃
	got := itemIDs(items)
	want := []string{"8002", "8004"}
	if len(got) != len(want) {
		t.Fatalf("候选 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("候选 = %v, want %v", got, want)
		}
	}

	// 已购商品永不出现在结果里
	for _, it := range items {
		if it.ID == "8001" {
			t.Errorf("已购商品不应出现在结果里")
		}
	}

	// 明细分：8002 有 embedding，描述分大于缺 embedding 的 8004
	if items[0].Feature(core.FeatureDescriptionScore) <= items[1].Feature(core.FeatureDescriptionScore) {
		t.Errorf("描述分排序不正确: %v vs %v",
			items[0].Feature(core.FeatureDescriptionScore),
			items[1].Feature(core.FeatureDescriptionScore))
	}
	if items[1].Feature(core.FeatureDescriptionScore) != 0 {
		t.Errorf("缺 embedding 的商品描述分应为 0，实际 %v",
			items[1].Feature(core.FeatureDescriptionScore))
	}

	if items[0].Labels["recall_source"].Value != "content" {
		t.Errorf("缺少 recall_source 标签")
	}
}

func TestContentBasedUnknownShopper(t *testing.T) {
	snapshot, tax, hist := newFixture(t)
	src := &ContentBased{Catalog: snapshot, Taxonomy: tax, History: hist}

	items, err := src.Recall(context.Background(), shopperCtx("ghost"))
	if err != nil {
		t.Fatalf("未知购物者不应报错: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("未知购物者应返回空结果，实际 %v", itemIDs(items))
	}

	items, err = src.Recall(context.Background(), shopperCtx(""))
	if err != nil || len(items) != 0 {
		t.Errorf("空购物者 ID 应返回空结果")
	}
}

func TestCollaborative(t *testing.T) {
	snapshot, tax, hist := newFixture(t)
	src := &Collaborative{Catalog: snapshot, Taxonomy: tax, History: hist, MinJaccard: 0.1}

	// c1 买过 8001；c2 也买过 8001（jaccard 0.5），c2 还买了 8002
	items, err := src.Recall(context.Background(), shopperCtx("c1"))
	if err != nil {
		t.Fatalf("Recall 失败: %v", err)
	}
	got := itemIDs(items)
	if len(got) != 1 || got[0] != "8002" {
		t.Fatalf("候选 = %v, want [8002]", got)
	}

	// 打分相对 c1 自己的历史
	if items[0].Feature(core.FeatureCategoryScore) <= 0 {
		t.Errorf("类目分应大于 0")
	}
	if items[0].Labels["recall_source"].Value != "collaborative" {
		t.Errorf("缺少 recall_source 标签")
	}
}

func TestCollaborativeThreshold(t *testing.T) {
	snapshot, tax, hist := newFixture(t)
	// 阈值高过 c2 的重叠度（0.5）：没有同好，结果为空
	src := &Collaborative{Catalog: snapshot, Taxonomy: tax, History: hist, MinJaccard: 0.6}

	items, err := src.Recall(context.Background(), shopperCtx("c1"))
	if err != nil {
		t.Fatalf("Recall 失败: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("无同好时应返回空结果，实际 %v", itemIDs(items))
	}
}

func TestCollaborativeNeverRecommendsOwned(t *testing.T) {
	snapshot, tax, hist := newFixture(t)
	src := &Collaborative{Catalog: snapshot, Taxonomy: tax, History: hist, MinJaccard: 0.1}

	// c2 买过 8001/8002；同好 c1 的商品 c2 全买过，结果为空
	items, err := src.Recall(context.Background(), shopperCtx("c2"))
	if err != nil {
		t.Fatalf("Recall 失败: %v", err)
	}
	for _, it := range items {
		if it.ID == "8001" || it.ID == "8002" {
			t.Errorf("已购商品 %s 不应出现在结果里", it.ID)
		}
	}
}

func TestDemographic(t *testing.T) {
	snapshot, _, hist := newFixture(t)
	src := &Demographic{Catalog: snapshot, History: hist}

	rctx := shopperCtx("")
	rctx.SetParam(core.ParamGender, "F")
	rctx.SetParam(core.ParamAgeBracket, "40")

	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall 失败: %v", err)
	}

	// F/40 人群（c1/c2/c4）：8001 两次，8002/8003/8005 各一次；
	// 同次数按商品 ID 升序
	got := itemIDs(items)
	want := []string{"8001", "8002", "8003", "8005"}
	if len(got) != len(want) {
		t.Fatalf("结果 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("结果 = %v, want %v", got, want)
		}
	}
	if items[0].Feature(core.FeatureOrderCount) != 2 {
		t.Errorf("8001 购买次数应为 2，实际 %v", items[0].Feature(core.FeatureOrderCount))
	}
}

func TestDemographicEmptyCohort(t *testing.T) {
	snapshot, _, hist := newFixture(t)
	src := &Demographic{Catalog: snapshot, History: hist}

	rctx := shopperCtx("")
	rctx.SetParam(core.ParamGender, "F")
	rctx.SetParam(core.ParamAgeBracket, "99")

	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("空人群不应报错: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("空人群应返回空结果，实际 %v", itemIDs(items))
	}

	// 缺参数也返回空
	items, _ = src.Recall(context.Background(), shopperCtx(""))
	if len(items) != 0 {
		t.Errorf("缺人群参数应返回空结果")
	}
}

func TestSimilarItems(t *testing.T) {
	snapshot, tax, _ := newFixture(t)
	src := &SimilarItems{Catalog: snapshot, Taxonomy: tax}

	rctx := shopperCtx("")
	rctx.SetParam(core.ParamTargetItem, "8001")

	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall 失败: %v", err)
	}

	got := itemIDs(items)
	want := []string{"8002", "8004"}
	if len(got) != len(want) {
		t.Fatalf("结果 = %v, want %v", got, want)
	}
	for _, it := range items {
		if it.ID == "8001" {
			t.Errorf("目标商品不应出现在结果里")
		}
	}
}

func TestSimilarItemsUnknownTarget(t *testing.T) {
	snapshot, tax, _ := newFixture(t)
	src := &SimilarItems{Catalog: snapshot, Taxonomy: tax}

	rctx := shopperCtx("")
	rctx.SetParam(core.ParamTargetItem, "9999")

	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("未知目标商品不应报错: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("未知目标商品应返回空结果")
	}
}
