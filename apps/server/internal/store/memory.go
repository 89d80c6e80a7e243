package store

import (
	"context"
	"sync"
	"time"

	"arcade-ai/engine"
)

// memoryService is the zero-dependency store used in tests and demos.
type memoryService struct {
	mu          sync.RWMutex
	performance map[string]engine.PlayerPerformanceData
	tournaments map[string]engine.Tournament
}

func NewMemoryService() Service {
	return &memoryService{
		performance: make(map[string]engine.PlayerPerformanceData),
		tournaments: make(map[string]engine.Tournament),
	}
}

func (s *memoryService) SavePerformance(_ context.Context, data engine.PlayerPerformanceData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performance[data.PlayerID] = data
	return nil
}

func (s *memoryService) GetPerformance(_ context.Context, playerID string) (*engine.PlayerPerformanceData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.performance[playerID]
	if !ok {
		return nil, nil
	}
	return &data, nil
}

func (s *memoryService) ListPerformance(_ context.Context) ([]engine.PlayerPerformanceData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]engine.PlayerPerformanceData, 0, len(s.performance))
	for _, data := range s.performance {
		out = append(out, data)
	}
	return out, nil
}

func (s *memoryService) SaveTournament(_ context.Context, t engine.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.ID] = t
	return nil
}

func (s *memoryService) GetTournament(_ context.Context, id string) (*engine.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *memoryService) PruneInactive(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dropped int64
	for id, data := range s.performance {
		if data.LastPlayed.Before(cutoff) {
			delete(s.performance, id)
			dropped++
		}
	}
	for id, t := range s.tournaments {
		done := t.Status == engine.TournamentStatusCompleted || t.Status == engine.TournamentStatusCancelled
		if done && t.CreatedAt.Before(cutoff) {
			delete(s.tournaments, id)
			dropped++
		}
	}
	return dropped, nil
}

func (s *memoryService) Close() error { return nil }
