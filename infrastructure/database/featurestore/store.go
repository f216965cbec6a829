package featurestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"facegate.io/infrastructure/metrics"
)

// DefaultMatchThreshold is the score a candidate must strictly exceed to be
// reported as an existing identity.
const DefaultMatchThreshold = 0.40

var (
	ErrInvalidSnapshot = errors.New("invalid feature snapshot")
	ErrEmptyLabel      = errors.New("label must not be empty")
)

type Record struct {
	Label    string
	Features entities.FaceFeatures
}

// Persister makes the store durable. Save receives the full snapshot that
// will be committed and the record that changed, so whole-file backends and
// per-record backends can both implement it.
type Persister interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, snapshot []Record, changed Record) error
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}

type Match struct {
	Found bool
	Label string
	Score float64
}

// Store keeps every enrolled descriptor in memory in enrollment order and
// scans them linearly. Writes are serialised and only committed once the
// persister has accepted the new snapshot.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	scorer    types.SimilarityScorer
	threshold float64
	records   []Record
	index     map[string]int
}

func Open(ctx context.Context, persister Persister, scorer types.SimilarityScorer, threshold float64) (*Store, error) {
	loaded, err := persister.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Store{
		persister: persister,
		scorer:    scorer,
		threshold: threshold,
		index:     make(map[string]int, len(loaded)),
	}
	for _, r := range loaded {
		if r.Label == "" {
			return nil, fmt.Errorf("%w: record with empty label", ErrInvalidSnapshot)
		}
		if err := r.Features.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", ErrInvalidSnapshot, r.Label, err)
		}
		if i, ok := s.index[r.Label]; ok {
			s.records[i] = r
			continue
		}
		s.index[r.Label] = len(s.records)
		s.records = append(s.records, r)
	}

	metrics.StoreRecords.Set(float64(len(s.records)))
	logger.Info("feature store loaded", logger.LoggerOptions{
		Key:  "records",
		Data: len(s.records),
	})
	return s, nil
}

// Save inserts or overwrites the descriptor for label. An overwritten label
// keeps its original position.
func (s *Store) Save(ctx context.Context, label string, features entities.FaceFeatures) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if err := features.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := Record{Label: label, Features: features}
	next := make([]Record, len(s.records), len(s.records)+1)
	copy(next, s.records)
	i, exists := s.index[label]
	if exists {
		next[i] = record
	} else {
		next = append(next, record)
	}

	if err := s.persister.Save(ctx, next, record); err != nil {
		metrics.StorePersistFailures.Inc()
		return fmt.Errorf("failed to persist feature store: %w", err)
	}

	s.records = next
	if !exists {
		s.index[label] = len(next) - 1
	}
	metrics.StoreRecords.Set(float64(len(s.records)))
	return nil
}

// BestMatch scores candidate against every record. Ties keep the earliest
// enrolled label. Found is set only when the best score is strictly above the
// threshold; an empty store never matches.
func (s *Store) BestMatch(candidate *entities.FaceFeatures) Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best Match
	for i := range s.records {
		score := s.scorer.Similarity(candidate, &s.records[i].Features)
		if score > best.Score {
			best.Score = score
			best.Label = s.records[i].Label
		}
	}
	best.Found = best.Label != "" && best.Score > s.threshold
	return best
}

func (s *Store) Get(label string) (entities.FaceFeatures, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[label]
	if !ok {
		return entities.FaceFeatures{}, false
	}
	return s.records[i].Features, true
}

// Labels returns enrolled labels in enrollment order.
func (s *Store) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	labels := make([]string, len(s.records))
	for i, r := range s.records {
		labels[i] = r.Label
	}
	return labels
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) Threshold() float64 {
	return s.threshold
}

// Reset drops every record, in the backend first.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		metrics.StorePersistFailures.Inc()
		return fmt.Errorf("failed to clear feature store: %w", err)
	}
	s.records = nil
	s.index = make(map[string]int)
	metrics.StoreRecords.Set(0)
	logger.Warning("feature store cleared")
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.persister.Close(ctx)
}
