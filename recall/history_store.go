package recall

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/history"
)

// HistoryStore 是购买历史的读取接口，供各策略消费。
// 约定：查不到的客户/商品/人群返回空结果，不返回错误——"不认识"在
// 推荐语境里意味着"推荐不出东西"，而不是失败。
type HistoryStore interface {
	// GetUserItems 返回客户按出现顺序的已购商品序列（保留重复）
	GetUserItems(ctx context.Context, customerID string) ([]string, error)

	// GetItemPurchasers 返回购买过某商品的客户 ID 列表（升序，保证遍历确定）
	GetItemPurchasers(ctx context.Context, itemID string) ([]string, error)

	// GetBaskets 返回全部购物篮（同单商品分组）
	GetBaskets(ctx context.Context) ([]history.Basket, error)

	// CountByCohort 返回 (gender, ageBracket) 人群对每个商品的购买次数
	CountByCohort(ctx context.Context, gender, ageBracket string) (map[string]int, error)
}

// IndexStore 把内存中的 history.Index 适配成 HistoryStore。
// 这是默认的请求内用法：每次调用前由外部 Build 索引、传入策略。
type IndexStore struct {
	Index *history.Index
}

var _ HistoryStore = (*IndexStore)(nil)

func (s *IndexStore) GetUserItems(_ context.Context, customerID string) ([]string, error) {
	return s.Index.UserItems(customerID), nil
}

func (s *IndexStore) GetItemPurchasers(_ context.Context, itemID string) ([]string, error) {
	users := s.Index.ItemPurchasers(itemID)
	out := make([]string, 0, len(users))
	for id := range users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *IndexStore) GetBaskets(_ context.Context) ([]history.Basket, error) {
	return s.Index.Baskets(), nil
}

func (s *IndexStore) CountByCohort(_ context.Context, gender, ageBracket string) (map[string]int, error) {
	return s.Index.CohortCounts(gender, ageBracket), nil
}

// StoreHistoryAdapter 是基于 core.Store 的购买历史适配器，
// 让索引可以物化到 Redis 等外部存储、由多个进程共享读。
//
// key 布局：
//
//	{prefix}:user:{customerID}          -> JSON []string（已购商品序列）
//	{prefix}:item:{itemID}              -> JSON []string（购买者列表，升序）
//	{prefix}:baskets                    -> JSON []history.Basket
//	{prefix}:cohort:{gender}:{bracket}  -> JSON map[string]int
type StoreHistoryAdapter struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀，默认 "history"
	KeyPrefix string
}

var _ HistoryStore = (*StoreHistoryAdapter)(nil)

// NewStoreHistoryAdapter 创建一个基于 core.Store 的购买历史适配器。
func NewStoreHistoryAdapter(s core.Store, keyPrefix string) *StoreHistoryAdapter {
	if keyPrefix == "" {
		keyPrefix = "history"
	}
	return &StoreHistoryAdapter{store: s, KeyPrefix: keyPrefix}
}

func (a *StoreHistoryAdapter) GetUserItems(ctx context.Context, customerID string) ([]string, error) {
	var items []string
	if err := a.getJSON(ctx, a.KeyPrefix+":user:"+customerID, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *StoreHistoryAdapter) GetItemPurchasers(ctx context.Context, itemID string) ([]string, error) {
	var users []string
	if err := a.getJSON(ctx, a.KeyPrefix+":item:"+itemID, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *StoreHistoryAdapter) GetBaskets(ctx context.Context) ([]history.Basket, error) {
	var baskets []history.Basket
	if err := a.getJSON(ctx, a.KeyPrefix+":baskets", &baskets); err != nil {
		return nil, err
	}
	return baskets, nil
}

func (a *StoreHistoryAdapter) CountByCohort(ctx context.Context, gender, ageBracket string) (map[string]int, error) {
	counts := make(map[string]int)
	if err := a.getJSON(ctx, a.KeyPrefix+":cohort:"+gender+":"+ageBracket, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// getJSON 读取并反序列化；key 不存在时保持零值返回（空结果语义）。
func (a *StoreHistoryAdapter) getJSON(ctx context.Context, key string, v any) error {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// SaveIndex 把构建好的索引物化进 Store，供 StoreHistoryAdapter 读取。
// cohorts 指定需要预聚合的人群（笛卡尔积之外的人群查询会得到空结果）。
func SaveIndex(ctx context.Context, a *StoreHistoryAdapter, idx *history.Index, cohorts [][2]string) error {
	kvs := make(map[string][]byte)

	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		kvs[key] = data
		return nil
	}

	for _, customerID := range idx.Shoppers() {
		if err := put(a.KeyPrefix+":user:"+customerID, idx.UserItems(customerID)); err != nil {
			return err
		}
		for _, itemID := range idx.UserItems(customerID) {
			key := a.KeyPrefix + ":item:" + itemID
			if _, ok := kvs[key]; ok {
				continue
			}
			users := idx.ItemPurchasers(itemID)
			list := make([]string, 0, len(users))
			for id := range users {
				list = append(list, id)
			}
			sort.Strings(list)
			if err := put(key, list); err != nil {
				return err
			}
		}
	}

	if err := put(a.KeyPrefix+":baskets", idx.Baskets()); err != nil {
		return err
	}
	for _, cohort := range cohorts {
		key := a.KeyPrefix + ":cohort:" + cohort[0] + ":" + cohort[1]
		if err := put(key, idx.CohortCounts(cohort[0], cohort[1])); err != nil {
			return err
		}
	}

	return a.store.BatchSet(ctx, kvs)
}
