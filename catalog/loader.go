package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/taxonomy"
)

// 加载器消化三种外部文件并转成强类型结构。任何文件不可读或格式非法都是
// 启动期致命错误，在任何推荐调用之前返回给调用方。

// itemProfileJSON 是商品档案 JSON 的行格式：
//
//	{ "<item_id>": {"name": "...", "categories": ["...", ...], "embedding": [0.1, ...]}, ... }
type itemProfileJSON struct {
	Name       string    `json:"name"`
	Categories []string  `json:"categories"`
	Embedding  []float64 `json:"embedding"`
}

// LoadItemProfiles 从 JSON 文件加载商品档案并构建快照。
func LoadItemProfiles(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: read item profiles %s: %v", path, err))
	}

	var raw map[string]itemProfileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: parse item profiles %s: %v", path, err))
	}

	items := make(map[string]ItemProfile, len(raw))
	for id, p := range raw {
		items[id] = ItemProfile{
			ID:         id,
			Name:       p.Name,
			Categories: p.Categories,
			Embedding:  p.Embedding,
		}
	}
	return NewSnapshot(items), nil
}

// LoadCustomers 从 CSV 文件加载客户表。
// 要求表头包含 customer_id、gender、age_bracket 三列。
func LoadCustomers(path string) (*CustomerTable, error) {
	rows, idx, err := readCSV(path, "customer_id", "gender", "age_bracket")
	if err != nil {
		return nil, err
	}

	customers := make([]Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, Customer{
			ID:         row[idx[0]],
			Gender:     row[idx[1]],
			AgeBracket: row[idx[2]],
		})
	}
	return NewCustomerTable(customers), nil
}

// LoadOrders 加载一个或多个订单日志分片并逻辑拼接。
// 每个分片要求表头包含 order_id、customer_id、item_id 三列。
func LoadOrders(paths ...string) ([]OrderRecord, error) {
	var orders []OrderRecord
	for _, path := range paths {
		rows, idx, err := readCSV(path, "order_id", "customer_id", "item_id")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			orders = append(orders, OrderRecord{
				OrderID:    row[idx[0]],
				CustomerID: row[idx[1]],
				ItemID:     row[idx[2]],
			})
		}
	}
	return orders, nil
}

// LoadCategoryEdges 从 CSV 文件加载类目边表并构建类目图。
// 要求表头包含 parent、child 两列；树性质校验由 taxonomy.New 完成。
func LoadCategoryEdges(path string) (*taxonomy.Taxonomy, error) {
	rows, idx, err := readCSV(path, "parent", "child")
	if err != nil {
		return nil, err
	}

	edges := make([]taxonomy.Edge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, taxonomy.Edge{Parent: row[idx[0]], Child: row[idx[1]]})
	}
	return taxonomy.New(edges)
}

// readCSV 读取带表头的 CSV，返回数据行与所需列的下标（按 columns 顺序）。
func readCSV(path string, columns ...string) ([][]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: open %s: %v", path, err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: read header of %s: %v", path, err))
	}

	idx := make([]int, len(columns))
	for i, col := range columns {
		idx[i] = -1
		for j, h := range header {
			if h == col {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: %s: missing column %q", path, col))
		}
	}

	var rows [][]string
	maxIdx := 0
	for _, i := range idx {
		if i > maxIdx {
			maxIdx = i
		}
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: read %s: %v", path, err))
		}
		if len(row) <= maxIdx {
			continue // 短行跳过，不让单条脏数据拖垮整个加载
		}
		rows = append(rows, row)
	}
	return rows, idx, nil
}
