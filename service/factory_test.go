package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shoply/mallkit/core"
)

func writeDataFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", name, err)
	}
	return path
}

func TestNewRecommenderFromFiles(t *testing.T) {
	dir := t.TempDir()
	paths := DataPaths{
		ItemProfiles: writeDataFile(t, dir, "items.json", `{
			"8001": {"name": "샴푸 17", "categories": ["생활용품", "샴푸"], "embedding": [1, 0]},
			"8002": {"name": "린스 17", "categories": ["생활용품", "샴푸"], "embedding": [0.9, 0.1]}
		}`),
		Customers: writeDataFile(t, dir, "customers.csv",
			"customer_id,gender,age_bracket\nc1,F,40\nc2,F,40\n"),
		Orders: []string{writeDataFile(t, dir, "orders.csv",
			"order_id,customer_id,item_id\no1,c1,8001\no2,c2,8001\no2,c2,8002\n")},
		CategoryEdges: writeDataFile(t, dir, "edges.csv",
			"parent,child\n생활용품,샴푸\n"),
	}

	r, err := NewRecommenderFromFiles(paths, nil)
	if err != nil {
		t.Fatalf("NewRecommenderFromFiles 失败: %v", err)
	}

	got, err := r.RecommendContentBased(context.Background(), "c1", "17", 10)
	if err != nil {
		t.Fatalf("RecommendContentBased 失败: %v", err)
	}
	assertIDs(t, got, "8002")
}

func TestNewRecommenderFromFilesBadData(t *testing.T) {
	dir := t.TempDir()
	paths := DataPaths{
		ItemProfiles:  writeDataFile(t, dir, "items.json", `not json`),
		Customers:     writeDataFile(t, dir, "customers.csv", "customer_id,gender,age_bracket\n"),
		Orders:        nil,
		CategoryEdges: writeDataFile(t, dir, "edges.csv", "parent,child\n"),
	}

	if _, err := NewRecommenderFromFiles(paths, nil); !core.IsInvalidInput(err) {
		t.Errorf("损坏的档案文件应返回 INVALID_INPUT, got %v", err)
	}
}
