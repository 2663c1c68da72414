// Package history 把订单日志与客户表联结成购买历史索引。
//
// 索引是纯投影：可随时从订单分片重建，自身没有独立生命周期。核心在每次
// 请求时重建它（与数据源行为一致），调用方也可以构建一次后复用——索引
// 构建完成后只读，并发读不需要加锁。
package history

import (
	"github.com/shoply/mallkit/catalog"
)

// Basket 是一个购物篮：同一订单号下购买的商品序列（保留重复与顺序）。
type Basket struct {
	OrderID string
	Items   []string
}

// Index 是购买历史的双向索引。
type Index struct {
	userItems map[string][]string            // customer -> 按出现顺序的已购商品（保留重复）
	itemUsers map[string]map[string]struct{} // item -> 购买过它的客户集合
	baskets   []Basket                       // 按订单号首次出现顺序的购物篮
	records   []catalog.OrderRecord          // 联结成功的订单行（供人群统计）
	customers *catalog.CustomerTable
}

// Build 从订单分片与客户表构建索引。
// 客户表中不存在的客户的订单行会被静默跳过（联结失败不致命），
// 这也意味着人群类策略天然排除了无法归属的订单。
func Build(orders []catalog.OrderRecord, customers *catalog.CustomerTable) *Index {
	idx := &Index{
		userItems: make(map[string][]string),
		itemUsers: make(map[string]map[string]struct{}),
		customers: customers,
	}

	basketPos := make(map[string]int)
	for _, o := range orders {
		if _, ok := customers.Get(o.CustomerID); !ok {
			continue
		}
		idx.records = append(idx.records, o)

		idx.userItems[o.CustomerID] = append(idx.userItems[o.CustomerID], o.ItemID)

		users, ok := idx.itemUsers[o.ItemID]
		if !ok {
			users = make(map[string]struct{})
			idx.itemUsers[o.ItemID] = users
		}
		users[o.CustomerID] = struct{}{}

		pos, ok := basketPos[o.OrderID]
		if !ok {
			pos = len(idx.baskets)
			basketPos[o.OrderID] = pos
			idx.baskets = append(idx.baskets, Basket{OrderID: o.OrderID})
		}
		idx.baskets[pos].Items = append(idx.baskets[pos].Items, o.ItemID)
	}

	return idx
}

// UserItems 返回客户按出现顺序的已购商品序列（保留重复）。未知客户返回 nil。
func (idx *Index) UserItems(customerID string) []string {
	return idx.userItems[customerID]
}

// UserItemSet 返回客户已购商品的集合视图。
func (idx *Index) UserItemSet(customerID string) map[string]struct{} {
	items := idx.userItems[customerID]
	set := make(map[string]struct{}, len(items))
	for _, id := range items {
		set[id] = struct{}{}
	}
	return set
}

// ItemPurchasers 返回购买过某商品的客户 ID 集合。
func (idx *Index) ItemPurchasers(itemID string) map[string]struct{} {
	return idx.itemUsers[itemID]
}

// Baskets 返回按订单号首次出现顺序的全部购物篮。调用方不应修改。
func (idx *Index) Baskets() []Basket {
	return idx.baskets
}

// CohortCounts 统计 (gender, ageBracket) 人群对每个商品的购买次数。
// 精确匹配人群；没有任何匹配订单时返回空 map。
func (idx *Index) CohortCounts(gender, ageBracket string) map[string]int {
	counts := make(map[string]int)
	for _, o := range idx.records {
		c, ok := idx.customers.Get(o.CustomerID)
		if !ok {
			continue
		}
		if c.Gender != gender || c.AgeBracket != ageBracket {
			continue
		}
		counts[o.ItemID]++
	}
	return counts
}

// Shoppers 返回出现在索引中的全部客户 ID（无序）。
func (idx *Index) Shoppers() []string {
	out := make([]string, 0, len(idx.userItems))
	for id := range idx.userItems {
		out = append(out, id)
	}
	return out
}
