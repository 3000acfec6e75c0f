package mockapi

import (
	"sync"
	"time"

	"ovhkit/ovh"
)

const (
	ConsumerPending   = "pendingValidation"
	ConsumerValidated = "validated"
)

type AppRecord struct {
	AppKey    string
	AppSecret string
	Name      string
	CreatedAt int64
}

type ConsumerRecord struct {
	ConsumerKey string
	AppKey      string
	Rules       []ovh.AccessRule
	Status      string
	CreatedAt   int64
	LastUsed    int64
}

type Store interface {
	CreateApplication(rec *AppRecord) error
	// GetApplication returns nil, nil when the key is unknown.
	GetApplication(appKey string) (*AppRecord, error)
	CreateConsumer(rec *ConsumerRecord) error
	// GetConsumer returns nil, nil when the key is unknown.
	GetConsumer(consumerKey string) (*ConsumerRecord, error)
	ValidateConsumer(consumerKey string) error
	TouchConsumer(consumerKey string, when int64) error
	DeleteConsumer(consumerKey string) error
}

// MemStore keeps everything in maps. Good enough for tests and throwaway
// mock runs; ovh-mockd uses SQLiteStore so issued keys survive restarts.
type MemStore struct {
	mu        sync.Mutex
	apps      map[string]*AppRecord
	consumers map[string]*ConsumerRecord
}

func NewMemStore() *MemStore {
	return &MemStore{
		apps:      map[string]*AppRecord{},
		consumers: map[string]*ConsumerRecord{},
	}
}

func (s *MemStore) CreateApplication(rec *AppRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	s.apps[rec.AppKey] = rec
	return nil
}

func (s *MemStore) GetApplication(appKey string) (*AppRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[appKey], nil
}

func (s *MemStore) CreateConsumer(rec *ConsumerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	s.consumers[rec.ConsumerKey] = rec
	return nil
}

func (s *MemStore) GetConsumer(consumerKey string) (*ConsumerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumers[consumerKey], nil
}

func (s *MemStore) ValidateConsumer(consumerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.consumers[consumerKey]; rec != nil {
		rec.Status = ConsumerValidated
	}
	return nil
}

func (s *MemStore) TouchConsumer(consumerKey string, when int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.consumers[consumerKey]; rec != nil {
		rec.LastUsed = when
	}
	return nil
}

func (s *MemStore) DeleteConsumer(consumerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.consumers, consumerKey)
	return nil
}
