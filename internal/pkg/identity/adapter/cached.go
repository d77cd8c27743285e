package adapter

import (
	"context"
	"encoding/json"
	"time"

	cacheport "marketchat/internal/infrastructure/cache/port"
	"marketchat/internal/pkg/identity/port"
)

const profileTTL = 10 * time.Minute

// CachedProvider fronts another Provider with the key-value cache. Profiles
// change rarely relative to how often conversation responses need them, so a
// short TTL is enough. Cache failures are soft: the lookup falls through to
// the inner provider.
type CachedProvider struct {
	inner port.Provider
	cache cacheport.Cache
}

func NewCachedProvider(inner port.Provider, cache cacheport.Cache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

var _ port.Provider = (*CachedProvider)(nil)

func cacheKey(userID string) string {
	return "identity:profile:" + userID
}

func (p *CachedProvider) Resolve(ctx context.Context, userID string) (port.Profile, error) {
	// misses and transport errors both fall through to the inner provider
	if cached, err := p.cache.Get(ctx, cacheKey(userID)); err == nil {
		var profile port.Profile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return profile, nil
		}
	}

	profile, err := p.inner.Resolve(ctx, userID)
	if err != nil {
		return port.Profile{}, err
	}

	if encoded, err := json.Marshal(profile); err == nil {
		_ = p.cache.Set(ctx, cacheKey(userID), string(encoded), profileTTL)
	}
	return profile, nil
}
