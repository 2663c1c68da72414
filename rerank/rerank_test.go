package rerank

import (
	"context"
	"testing"

	"github.com/shoply/mallkit/core"
)

func newItems(ids ...string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func idsOf(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTopN(t *testing.T) {
	node := &TopNNode{N: 2}

	out, err := node.Process(context.Background(), nil, newItems("a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("Process 失败: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("截断结果 = %v, want [a b]", idsOf(out))
	}

	// 候选不足 N：全部保留
	out, _ = node.Process(context.Background(), nil, newItems("a"))
	if len(out) != 1 {
		t.Errorf("候选不足时不应丢弃, got %v", idsOf(out))
	}
}

func TestTopNRequestOverride(t *testing.T) {
	node := &TopNNode{N: 10}
	rctx := &core.RecommendContext{Params: map[string]any{core.ParamLimit: 3}}

	out, err := node.Process(context.Background(), rctx, newItems("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("Process 失败: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("请求级 limit=3 应覆盖默认值, got %d 个", len(out))
	}
}

func TestTopNNoTruncate(t *testing.T) {
	// N <= 0 表示不截断
	node := &TopNNode{N: 0}
	out, _ := node.Process(context.Background(), nil, newItems("a", "b", "c"))
	if len(out) != 3 {
		t.Errorf("N=0 不应截断, got %d 个", len(out))
	}
}

func TestDiversity(t *testing.T) {
	withPath := func(id, path string) *core.Item {
		it := core.NewItem(id)
		it.Meta[core.MetaCategoryPath] = path
		return it
	}

	node := &Diversity{}
	in := []*core.Item{
		withPath("a", "생활용품 > 샴푸"),
		withPath("b", "생활용품 > 샴푸"), // 同类目，去掉
		withPath("c", "식품 > 과자"),
		core.NewItem("d"), // 无类目，保留
		nil,
	}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process 失败: %v", err)
	}
	want := []string{"a", "c", "d"}
	got := idsOf(out)
	if len(got) != len(want) {
		t.Fatalf("多样性结果 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("位置 %d = %s, want %s", i, got[i], want[i])
		}
	}
}
