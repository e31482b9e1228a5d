package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// TTL 상수 정의
const (
	TTLMediaSearch = 1 * time.Minute // 자동완성 검색 결과
	TTLDefault     = 5 * time.Minute
)

// 캐시 키 접두사
const (
	PrefixMediaSearch = "media:search:"
)

// ErrCacheMiss key absent or expired
var ErrCacheMiss = errors.New("cache miss")

var cacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Cache lookups by backend and result",
	},
	[]string{"backend", "result"},
)

// Service 캐시 서비스 인터페이스
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping Redis 연결 테스트
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		cacheRequestsTotal.WithLabelValues("redis", "miss").Inc()
		return ErrCacheMiss
	}
	if err != nil {
		cacheRequestsTotal.WithLabelValues("redis", "error").Inc()
		return err
	}

	cacheRequestsTotal.WithLabelValues("redis", "hit").Inc()
	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists 캐시 존재 여부 확인
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// Typed wraps a Service with a typed get/put contract
type Typed[V any] struct {
	svc Service
}

// NewTyped creates a typed view over svc
func NewTyped[V any](svc Service) *Typed[V] {
	return &Typed[V]{svc: svc}
}

// Get returns the cached value and whether it was present and decodable
func (t *Typed[V]) Get(ctx context.Context, key string) (V, bool) {
	var v V
	if t.svc == nil || !t.svc.IsAvailable() {
		return v, false
	}
	if err := t.svc.Get(ctx, key, &v); err != nil {
		return v, false
	}
	return v, true
}

// Put stores value for ttl
func (t *Typed[V]) Put(ctx context.Context, key string, value V, ttl time.Duration) error {
	if t.svc == nil || !t.svc.IsAvailable() {
		return nil
	}
	return t.svc.Set(ctx, key, value, ttl)
}
