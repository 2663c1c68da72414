package feature

import (
	"context"
	"sync"
	"time"
)

// CachedProvider 在任意 Provider 之上叠加内存缓存，减少对远程特征服务的访问。
// 过期条目在读取时惰性淘汰；容量超限时随机淘汰一个过期优先的条目。
type CachedProvider struct {
	Upstream Provider

	// TTL 缓存有效期，默认 5 分钟
	TTL time.Duration

	// MaxSize 单类缓存最大条目数，默认 10000
	MaxSize int

	mu       sync.RWMutex
	items    map[string]*embeddingEntry
	shoppers map[string]*demoEntry
}

type embeddingEntry struct {
	embedding []float64
	expireAt  time.Time
}

type demoEntry struct {
	gender     string
	ageBracket string
	expireAt   time.Time
}

func NewCachedProvider(upstream Provider, ttl time.Duration, maxSize int) *CachedProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &CachedProvider{
		Upstream: upstream,
		TTL:      ttl,
		MaxSize:  maxSize,
		items:    make(map[string]*embeddingEntry),
		shoppers: make(map[string]*demoEntry),
	}
}

func (c *CachedProvider) Name() string {
	return "cached." + c.Upstream.Name()
}

func (c *CachedProvider) ItemEmbedding(ctx context.Context, itemID string) ([]float64, error) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.items[itemID]
	c.mu.RUnlock()
	if ok && now.Before(e.expireAt) {
		return e.embedding, nil
	}

	embedding, err := c.Upstream.ItemEmbedding(ctx, itemID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.evictItems(now)
	c.items[itemID] = &embeddingEntry{embedding: embedding, expireAt: now.Add(c.TTL)}
	c.mu.Unlock()
	return embedding, nil
}

func (c *CachedProvider) ShopperDemographics(ctx context.Context, userID string) (string, string, error) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.shoppers[userID]
	c.mu.RUnlock()
	if ok && now.Before(e.expireAt) {
		return e.gender, e.ageBracket, nil
	}

	gender, ageBracket, err := c.Upstream.ShopperDemographics(ctx, userID)
	if err != nil {
		return "", "", err
	}

	c.mu.Lock()
	c.evictShoppers(now)
	c.shoppers[userID] = &demoEntry{gender: gender, ageBracket: ageBracket, expireAt: now.Add(c.TTL)}
	c.mu.Unlock()
	return gender, ageBracket, nil
}

// evictItems 在写入前清理过期条目；仍超限时随机淘汰
func (c *CachedProvider) evictItems(now time.Time) {
	if len(c.items) < c.MaxSize {
		return
	}
	for k, e := range c.items {
		if now.After(e.expireAt) {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) < c.MaxSize {
			break
		}
		delete(c.items, k)
	}
}

func (c *CachedProvider) evictShoppers(now time.Time) {
	if len(c.shoppers) < c.MaxSize {
		return
	}
	for k, e := range c.shoppers {
		if now.After(e.expireAt) {
			delete(c.shoppers, k)
		}
	}
	for k := range c.shoppers {
		if len(c.shoppers) < c.MaxSize {
			break
		}
		delete(c.shoppers, k)
	}
}

var _ Provider = (*CachedProvider)(nil)
