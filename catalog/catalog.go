// Package catalog 定义商品档案、客户表、订单日志三类输入数据的强类型结构，
// 以及对应的文件加载器。
//
// 商品档案与客户表在进程启动时加载一次，之后作为不可变快照被所有推荐
// 策略共享读；订单日志可按请求重建索引（见 history 包），也可由调用方缓存。
package catalog

import (
	"sort"
	"strings"
)

// ItemProfile 是一条商品档案。
// Categories 是从根到最具体类目的有序标签序列，合法商品非空；
// Embedding 是固定维度的描述向量，可缺失（nil），缺失时描述相似度记 0。
type ItemProfile struct {
	ID         string
	Name       string
	Categories []string
	Embedding  []float64
}

// CategoryPath 返回 " > " 连接的类目路径字符串，用于展示。
func (p ItemProfile) CategoryPath() string {
	if len(p.Categories) == 0 {
		return "Unknown"
	}
	return strings.Join(p.Categories, " > ")
}

// Leaf 返回最具体的类目节点，路径为空时返回空串。
func (p ItemProfile) Leaf() string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[len(p.Categories)-1]
}

// Customer 是客户表中的一行。
type Customer struct {
	ID         string
	Gender     string // 两值枚举，例如 "male" / "female"
	AgeBracket string // 年龄段标签，例如 "20" / "30"
}

// OrderRecord 是订单日志中的一行：订单号 + 客户 + 单个商品。
// 同一订单号的多行构成一个购物篮；多个日志分片在逻辑上拼接为一个订单集。
type OrderRecord struct {
	OrderID    string
	CustomerID string
	ItemID     string
}

// Snapshot 是不可变的商品档案快照。
// 内部维护按 ID 升序的遍历序，保证所有策略的候选枚举顺序确定。
type Snapshot struct {
	items map[string]ItemProfile
	ids   []string
}

// NewSnapshot 从档案表构建快照。传入的 map 之后不应再被修改。
func NewSnapshot(items map[string]ItemProfile) *Snapshot {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &Snapshot{items: items, ids: ids}
}

// Get 按 ID 取商品档案。
func (s *Snapshot) Get(id string) (ItemProfile, bool) {
	p, ok := s.items[id]
	return p, ok
}

// IDs 返回按 ID 升序的全量商品 ID 列表。调用方不应修改返回的切片。
func (s *Snapshot) IDs() []string {
	return s.ids
}

// Len 返回商品数量。
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// CustomerTable 是不可变的客户表。
type CustomerTable struct {
	customers map[string]Customer
}

// NewCustomerTable 从客户列表构建客户表，重复 ID 以后出现者为准。
func NewCustomerTable(customers []Customer) *CustomerTable {
	m := make(map[string]Customer, len(customers))
	for _, c := range customers {
		m[c.ID] = c
	}
	return &CustomerTable{customers: m}
}

// Get 按 ID 查客户。
func (t *CustomerTable) Get(id string) (Customer, bool) {
	c, ok := t.customers[id]
	return c, ok
}

// Len 返回客户数量。
func (t *CustomerTable) Len() int {
	return len(t.customers)
}
