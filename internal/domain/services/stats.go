package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/castletown/compendium/internal/domain/ports"
)

// statsCacheKey is the single cache entry the dashboard stats live under.
const statsCacheKey = "dashboard-stats"

// countsCacheKey holds the roster-wide relationship count map.
const countsCacheKey = "relationship-counts"

// Stats is the aggregate block the dashboard's overview page renders.
type Stats struct {
	Characters          int            `json:"characters"`
	Relationships       int            `json:"relationships"`
	Submissions         int            `json:"submissions"`
	CharactersByRace    map[string]int `json:"characters_by_race"`
	CharactersByVillage map[string]int `json:"characters_by_village"`
	RelationshipsByType map[string]int `json:"relationships_by_type"`
	GeneratedAt         time.Time      `json:"generated_at"`
}

// StatsService computes dashboard aggregates. Results are cached for a short
// TTL because the dashboard polls while a tab is open.
type StatsService struct {
	store         ports.Store
	relationships *RelationshipService
	cache         *cache.Cache
}

// NewStatsService creates a new StatsService.
func NewStatsService(store ports.Store, relationships *RelationshipService) *StatsService {
	return &StatsService{
		store:         store,
		relationships: relationships,
		cache:         cache.New(30*time.Second, time.Minute),
	}
}

// Overview returns the aggregate stats block, recomputing it at most once per
// cache TTL.
func (s *StatsService) Overview(ctx context.Context) (*Stats, error) {
	if cached, found := s.cache.Get(statsCacheKey); found {
		return cached.(*Stats), nil
	}

	characters, err := s.store.CountCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting characters: %w", err)
	}
	relationships, err := s.store.CountRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting relationships: %w", err)
	}
	submissions, err := s.store.CountSubmissions(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}
	byRace, err := s.store.GroupCharactersByRace(ctx)
	if err != nil {
		return nil, fmt.Errorf("grouping characters by race: %w", err)
	}
	byVillage, err := s.store.GroupCharactersByVillage(ctx)
	if err != nil {
		return nil, fmt.Errorf("grouping characters by village: %w", err)
	}
	byType, err := s.store.GroupRelationshipsByPrimaryType(ctx)
	if err != nil {
		return nil, fmt.Errorf("grouping relationships by type: %w", err)
	}

	stats := &Stats{
		Characters:          characters,
		Relationships:       relationships,
		Submissions:         submissions,
		CharactersByRace:    byRace,
		CharactersByVillage: byVillage,
		RelationshipsByType: byType,
		GeneratedAt:         time.Now(),
	}
	s.cache.Set(statsCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}

// RelationshipCounts returns the roster-wide relationship count map, cached
// alongside the overview. A missing character id means zero references.
func (s *StatsService) RelationshipCounts(ctx context.Context) (map[string]int, error) {
	if cached, found := s.cache.Get(countsCacheKey); found {
		return cached.(map[string]int), nil
	}

	counts, err := s.relationships.Counts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(countsCacheKey, counts, cache.DefaultExpiration)
	return counts, nil
}

// Invalidate drops cached aggregates after a mutation so the next poll sees
// fresh numbers.
func (s *StatsService) Invalidate() {
	s.cache.Delete(statsCacheKey)
	s.cache.Delete(countsCacheKey)
}
