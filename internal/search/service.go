package search

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pinpost-app/pinpost-backend/internal/users"
)

const (
	maxResults = 5

	userKeyPrefix     = "search:users:"    // cached user suggestions: search:users:{term}
	combinedKeyPrefix = "search:combined:" // cached user+tag suggestions: search:combined:{term}
	cacheTTL          = 30 * time.Second
)

type UserSearcher interface {
	SearchByPrefix(ctx context.Context, term string, limit int) ([]users.Summary, error)
}

type TagSearcher interface {
	SearchByPrefix(ctx context.Context, term string, limit int) ([]string, error)
}

// Combined is the user-tag-search response body.
type Combined struct {
	Users []users.Summary `json:"users"`
	Tags  []string        `json:"tags"`
}

// Service answers suggestion queries, fronted by a short-TTL redis cache.
// A nil cache client disables caching and every query hits the database.
type Service struct {
	users UserSearcher
	tags  TagSearcher
	cache *redis.Client
}

func NewService(u UserSearcher, t TagSearcher, cache *redis.Client) *Service {
	return &Service{users: u, tags: t, cache: cache}
}

// Users returns up to five display-name prefix matches.
func (s *Service) Users(ctx context.Context, term string) ([]users.Summary, error) {
	key := userKeyPrefix + strings.ToLower(term)

	var cached []users.Summary
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	out, err := s.users.SearchByPrefix(ctx, term, maxResults)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, out)
	return out, nil
}

// UsersAndTags returns prefix matches across users and tags, each capped at
// five.
func (s *Service) UsersAndTags(ctx context.Context, term string) (Combined, error) {
	key := combinedKeyPrefix + strings.ToLower(term)

	var cached Combined
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	userHits, err := s.users.SearchByPrefix(ctx, term, maxResults)
	if err != nil {
		return Combined{}, err
	}
	tagHits, err := s.tags.SearchByPrefix(ctx, term, maxResults)
	if err != nil {
		return Combined{}, err
	}

	out := Combined{Users: userHits, Tags: tagHits}
	s.cacheSet(ctx, key, out)
	return out, nil
}

// cacheGet reports whether key was present and decoded. Cache failures only
// log; the query falls through to the database.
func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("search cache get %s: %v", key, err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("search cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Printf("search cache set %s: %v", key, err)
	}
}
