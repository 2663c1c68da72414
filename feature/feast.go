package feature

import (
	"context"
	"fmt"

	"github.com/shoply/mallkit/core"
	"github.com/shoply/mallkit/feast"
)

// FeastProvider 把 feast.Client 适配为 Provider。
//
// 特征约定：
//   - 商品 embedding：FeatureView "{ItemView}"，特征 "{ItemView}:embedding"，实体 "item_id"
//   - 顾客属性：FeatureView "{ShopperView}"，特征 "{ShopperView}:gender" / ":age_bracket"，实体 "customer_id"
type FeastProvider struct {
	Client feast.Client

	// ItemView 商品特征视图名，默认 "item_stats"
	ItemView string

	// ShopperView 顾客特征视图名，默认 "shopper_stats"
	ShopperView string
}

func NewFeastProvider(client feast.Client) *FeastProvider {
	return &FeastProvider{
		Client:      client,
		ItemView:    "item_stats",
		ShopperView: "shopper_stats",
	}
}

func (p *FeastProvider) Name() string { return "feast" }

func (p *FeastProvider) ItemEmbedding(ctx context.Context, itemID string) ([]float64, error) {
	view := p.ItemView
	if view == "" {
		view = "item_stats"
	}
	featureName := view + ":embedding"

	resp, err := p.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   []string{featureName},
		EntityRows: []map[string]interface{}{{"item_id": itemID}},
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: feast item embedding: %v", err))
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, ErrFeatureNotFound
	}

	v, ok := resp.FeatureVectors[0].Values[featureName]
	if !ok {
		return nil, ErrFeatureNotFound
	}
	embedding, ok := v.([]float64)
	if !ok || len(embedding) == 0 {
		return nil, ErrFeatureNotFound
	}
	return embedding, nil
}

func (p *FeastProvider) ShopperDemographics(ctx context.Context, userID string) (string, string, error) {
	view := p.ShopperView
	if view == "" {
		view = "shopper_stats"
	}
	genderFeature := view + ":gender"
	ageFeature := view + ":age_bracket"

	resp, err := p.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   []string{genderFeature, ageFeature},
		EntityRows: []map[string]interface{}{{"customer_id": userID}},
	})
	if err != nil {
		return "", "", core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: feast shopper demographics: %v", err))
	}
	if len(resp.FeatureVectors) == 0 {
		return "", "", ErrFeatureNotFound
	}

	values := resp.FeatureVectors[0].Values
	gender, _ := values[genderFeature].(string)
	ageBracket, _ := values[ageFeature].(string)
	if gender == "" && ageBracket == "" {
		return "", "", ErrFeatureNotFound
	}
	return gender, ageBracket, nil
}

var _ Provider = (*FeastProvider)(nil)
