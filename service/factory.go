package service

import (
	"github.com/shoply/mallkit/catalog"
	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/history"
	"github.com/shoply/mallkit/recall"
)

// DataPaths 描述离线数据文件的位置。
type DataPaths struct {
	// ItemProfiles 商品档案 JSON（id → {name, categories, embedding}）
	ItemProfiles string

	// Customers 客户表 CSV（customer_id, gender, age_bracket）
	Customers string

	// Orders 订单日志 CSV 分片（order_id, customer_id, item_id），可多个
	Orders []string

	// CategoryEdges 类目树边表 CSV（parent, child）
	CategoryEdges string
}

// NewRecommenderFromFiles 从离线数据文件构建推荐门面：
// 加载档案/客户/订单/类目树，建好购买历史索引后组装 Recommender。
// 任一文件缺失或格式不合法返回 DomainError（INVALID_INPUT）。
func NewRecommenderFromFiles(paths DataPaths, cfg core.RecommendConfig) (*Recommender, error) {
	snapshot, err := catalog.LoadItemProfiles(paths.ItemProfiles)
	if err != nil {
		return nil, err
	}
	customers, err := catalog.LoadCustomers(paths.Customers)
	if err != nil {
		return nil, err
	}
	orders, err := catalog.LoadOrders(paths.Orders...)
	if err != nil {
		return nil, err
	}
	tax, err := catalog.LoadCategoryEdges(paths.CategoryEdges)
	if err != nil {
		return nil, err
	}

	idx := history.Build(orders, customers)
	return &Recommender{
		Catalog:   snapshot,
		Customers: customers,
		Taxonomy:  tax,
		History:   &recall.IndexStore{Index: idx},
		Config:    cfg,
	}, nil
}
