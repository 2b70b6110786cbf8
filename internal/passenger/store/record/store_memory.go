package record

import (
	"context"
	"slices"
	"sync"
	"time"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	"truida/pkg/platform/sentinel"
)

// InMemoryStore keeps passenger records in insertion order so biometric scans
// return a stable candidate order. Records are cloned on the way in and out.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.PassengerID]*models.PassengerRecord
	order   []id.PassengerID
}

func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.PassengerID]*models.PassengerRecord)}
}

// Put inserts a record or replaces the stored one with the same id in place.
func (s *InMemoryStore) Put(_ context.Context, rec *models.PassengerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, passengerID id.PassengerID) (*models.PassengerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[passengerID]; ok {
		return rec.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByPassport returns the first record enrolled under passport. Passport
// numbers are not unique; re-enrollment creates a second record.
func (s *InMemoryStore) FindByPassport(_ context.Context, passport string) (*models.PassengerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pid := range s.order {
		if rec := s.records[pid]; rec.PassportNumber == passport {
			return rec.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindByBiometrics returns every record with faceHash, narrowed by
// fingerprintHash when one is given. An empty result is not an error.
func (s *InMemoryStore) FindByBiometrics(_ context.Context, faceHash, fingerprintHash string) ([]*models.PassengerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.PassengerRecord
	for _, pid := range s.order {
		rec := s.records[pid]
		if rec.Biometrics.FaceHash != faceHash {
			continue
		}
		if fingerprintHash != "" && rec.Biometrics.FingerprintHash != fingerprintHash {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.PassengerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PassengerRecord, 0, len(s.order))
	for _, pid := range s.order {
		out = append(out, s.records[pid].Clone())
	}
	return out, nil
}

// DeleteByID reports false when the id is absent.
func (s *InMemoryStore) DeleteByID(_ context.Context, passengerID id.PassengerID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[passengerID]; !ok {
		return false, nil
	}
	delete(s.records, passengerID)
	s.order = slices.DeleteFunc(s.order, func(p id.PassengerID) bool { return p == passengerID })
	return true, nil
}

func (s *InMemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[id.PassengerID]*models.PassengerRecord)
	s.order = nil
	return nil
}

// SweepExpired removes every record whose flight departed at or before now in
// a single critical section.
func (s *InMemoryStore) SweepExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	kept := s.order[:0]
	for _, pid := range s.order {
		if s.records[pid].HasDeparted(now) {
			delete(s.records, pid)
			removed++
			continue
		}
		kept = append(kept, pid)
	}
	s.order = kept
	return removed, nil
}
