package core

// ShopperProfile 是购物者画像。
//
// 它不属于某一个 Node，而是：
//   - 被所有策略共享（人群推荐用静态属性，内容/协同推荐用购买历史）
//   - 由客户表 + 订单日志联结得到，核心不负责采集
//
// 维度          作用
// 静态属性      人群聚合 / 基础过滤
// 购买历史      内容相似 / 协同过滤的打分基准
type ShopperProfile struct {
	UserID string

	// 静态属性（来自客户表）
	Gender     string // 性别枚举，例如 "male" / "female"
	AgeBracket string // 年龄段标签，例如 "20" / "30"

	// PurchasedItems 是按出现顺序保留的已购商品 ID 序列（保留重复，供追溯；
	// 打分只关心集合语义）
	PurchasedItems []string
}

func NewShopperProfile(userID string) *ShopperProfile {
	return &ShopperProfile{
		UserID:         userID,
		PurchasedItems: make([]string, 0),
	}
}

// PurchasedSet 返回已购商品的集合视图。
func (p *ShopperProfile) PurchasedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.PurchasedItems))
	for _, id := range p.PurchasedItems {
		set[id] = struct{}{}
	}
	return set
}

// HasPurchased 检查是否购买过某商品。
func (p *ShopperProfile) HasPurchased(itemID string) bool {
	for _, id := range p.PurchasedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// Cohort 返回 (性别, 年龄段) 人群标识。
func (p *ShopperProfile) Cohort() (gender, ageBracket string) {
	return p.Gender, p.AgeBracket
}
