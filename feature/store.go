package feature

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shoply/mallkit/core"
)

// StoreProvider 是基于 core.Store 的特征提供者，读取离线物化好的特征。
//
// key 约定：
//   - 商品 embedding："{prefix}item:{itemID}"，值为 JSON 编码的 []float64
//   - 顾客属性："{prefix}shopper:{userID}"，值为 JSON {"gender": "F", "age_bracket": "40대"}
type StoreProvider struct {
	Store core.Store

	// KeyPrefix 默认 "features:"
	KeyPrefix string
}

type shopperDemo struct {
	Gender     string `json:"gender"`
	AgeBracket string `json:"age_bracket"`
}

func NewStoreProvider(store core.Store, keyPrefix string) *StoreProvider {
	if keyPrefix == "" {
		keyPrefix = "features:"
	}
	return &StoreProvider{Store: store, KeyPrefix: keyPrefix}
}

func (p *StoreProvider) Name() string {
	return fmt.Sprintf("store.%s", p.Store.Name())
}

func (p *StoreProvider) ItemEmbedding(ctx context.Context, itemID string) ([]float64, error) {
	data, err := p.Store.Get(ctx, p.KeyPrefix+"item:"+itemID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, ErrFeatureNotFound
		}
		return nil, err
	}

	var embedding []float64
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feature: decode item embedding: %v", err))
	}
	if len(embedding) == 0 {
		return nil, ErrFeatureNotFound
	}
	return embedding, nil
}

func (p *StoreProvider) ShopperDemographics(ctx context.Context, userID string) (string, string, error) {
	data, err := p.Store.Get(ctx, p.KeyPrefix+"shopper:"+userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return "", "", ErrFeatureNotFound
		}
		return "", "", err
	}

	var demo shopperDemo
	if err := json.Unmarshal(data, &demo); err != nil {
		return "", "", core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feature: decode shopper demographics: %v", err))
	}
	if demo.Gender == "" && demo.AgeBracket == "" {
		return "", "", ErrFeatureNotFound
	}
	return demo.Gender, demo.AgeBracket, nil
}

// SaveItemEmbedding 物化商品 embedding（离线任务调用）
func (p *StoreProvider) SaveItemEmbedding(ctx context.Context, itemID string, embedding []float64, ttl ...int) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return err
	}
	return p.Store.Set(ctx, p.KeyPrefix+"item:"+itemID, data, ttl...)
}

// SaveShopperDemographics 物化顾客属性（离线任务调用）
func (p *StoreProvider) SaveShopperDemographics(ctx context.Context, userID, gender, ageBracket string, ttl ...int) error {
	data, err := json.Marshal(shopperDemo{Gender: gender, AgeBracket: ageBracket})
	if err != nil {
		return err
	}
	return p.Store.Set(ctx, p.KeyPrefix+"shopper:"+userID, data, ttl...)
}

var _ Provider = (*StoreProvider)(nil)
