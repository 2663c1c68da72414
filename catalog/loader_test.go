package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shoply/mallkit/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func TestLoadItemProfiles(t *testing.T) {
	path := writeFile(t, "items.json", `{
		"8001": {"name": "샴푸 17", "categories": ["생활용품", "욕실용품", "샴푸"], "embedding": [0.1, 0.2]},
		"8002": {"name": "과자 17", "categories": ["식품", "과자"]}
	}`)

	snapshot, err := LoadItemProfiles(path)
	if err != nil {
		t.Fatalf("加载商品档案失败: %v", err)
	}
	if snapshot.Len() != 2 {
		t.Fatalf("商品数 = %d, want 2", snapshot.Len())
	}

	p, ok := snapshot.Get("8001")
	if !ok {
		t.Fatal("缺少 8001")
	}
	if p.Name != "샴푸 17" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.CategoryPath() != "생활용품 > 욕실용품 > 샴푸" {
		t.Errorf("CategoryPath = %q", p.CategoryPath())
	}
	if !reflect.DeepEqual(p.Embedding, []float64{0.1, 0.2}) {
		t.Errorf("Embedding = %v", p.Embedding)
	}

	// embedding 可缺失
	p, _ = snapshot.Get("8002")
	if p.Embedding != nil {
		t.Errorf("缺失 embedding 应为 nil, got %v", p.Embedding)
	}

	// 遍历序按 ID 升序
	if !reflect.DeepEqual(snapshot.IDs(), []string{"8001", "8002"}) {
		t.Errorf("IDs = %v", snapshot.IDs())
	}
}

func TestLoadItemProfilesInvalid(t *testing.T) {
	path := writeFile(t, "items.json", `not json`)
	_, err := LoadItemProfiles(path)
	if !core.IsInvalidInput(err) {
		t.Errorf("非法 JSON 应返回 INVALID_INPUT, got %v", err)
	}

	_, err = LoadItemProfiles(filepath.Join(t.TempDir(), "missing.json"))
	if !core.IsInvalidInput(err) {
		t.Errorf("文件不存在应返回 INVALID_INPUT, got %v", err)
	}
}

func TestLoadCustomers(t *testing.T) {
	path := writeFile(t, "customers.csv",
		"customer_id,gender,age_bracket\nc1,F,40\nc2,M,30\n")

	table, err := LoadCustomers(path)
	if err != nil {
		t.Fatalf("加载客户表失败: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("客户数 = %d, want 2", table.Len())
	}
	c, ok := table.Get("c1")
	if !ok || c.Gender != "F" || c.AgeBracket != "40" {
		t.Errorf("c1 = %+v", c)
	}
}

func TestLoadCustomersMissingColumn(t *testing.T) {
	path := writeFile(t, "customers.csv", "customer_id,gender\nc1,F\n")
	if _, err := LoadCustomers(path); !core.IsInvalidInput(err) {
		t.Errorf("缺列应返回 INVALID_INPUT, got %v", err)
	}
}

func TestLoadOrders(t *testing.T) {
	// 多分片逻辑拼接；短行跳过
	shard1 := writeFile(t, "orders1.csv",
		"order_id,customer_id,item_id\no1,c1,8001\no1,c1,8002\nbad-row\n")
	shard2 := writeFile(t, "orders2.csv",
		"order_id,customer_id,item_id\no2,c2,8001\n")

	orders, err := LoadOrders(shard1, shard2)
	if err != nil {
		t.Fatalf("加载订单分片失败: %v", err)
	}
	want := []OrderRecord{
		{OrderID: "o1", CustomerID: "c1", ItemID: "8001"},
		{OrderID: "o1", CustomerID: "c1", ItemID: "8002"},
		{OrderID: "o2", CustomerID: "c2", ItemID: "8001"},
	}
	if !reflect.DeepEqual(orders, want) {
		t.Errorf("orders = %v, want %v", orders, want)
	}
}

func TestLoadCategoryEdges(t *testing.T) {
	path := writeFile(t, "edges.csv",
		"parent,child\n생활용품,욕실용품\n욕실용품,샴푸\n")

	tax, err := LoadCategoryEdges(path)
	if err != nil {
		t.Fatalf("加载类目边表失败: %v", err)
	}
	if got := tax.Depth("샴푸"); got != 2 {
		t.Errorf("Depth(샴푸) = %d, want 2", got)
	}
}

func TestLoadCategoryEdgesCycle(t *testing.T) {
	// 环：树性质校验失败是启动期致命错误
	path := writeFile(t, "edges.csv", "parent,child\na,b\nb,a\n")
	if _, err := LoadCategoryEdges(path); !core.IsInvalidInput(err) {
		t.Errorf("成环边表应返回 INVALID_INPUT, got %v", err)
	}
}

func TestItemProfileHelpers(t *testing.T) {
	empty := ItemProfile{ID: "x"}
	if empty.CategoryPath() != "Unknown" {
		t.Errorf("空路径 CategoryPath = %q, want Unknown", empty.CategoryPath())
	}
	if empty.Leaf() != "" {
		t.Errorf("空路径 Leaf = %q, want 空串", empty.Leaf())
	}

	p := ItemProfile{Categories: []string{"식품", "과자"}}
	if p.Leaf() != "과자" {
		t.Errorf("Leaf = %q, want 과자", p.Leaf())
	}
}
