package db

import (
	"context"
	"slices"
	"sync"

	"github.com/satheeshds/phonebook/models"
)

// MemPersons is an in-memory person store. It keeps insertion order.
type MemPersons struct {
	mu      sync.Mutex
	index   map[string]int
	persons []models.Person
}

func NewMemPersons(ps ...models.Person) *MemPersons {
	index := make(map[string]int, len(ps))
	for i, p := range ps {
		index[p.ID] = i
	}
	return &MemPersons{index: index, persons: ps}
}

func (s *MemPersons) List(_ context.Context) ([]models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Person{}, s.persons...), nil
}

func (s *MemPersons) Get(_ context.Context, id string) (models.Person, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return models.Person{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.Person{}, models.ErrNotFound
	}
	return s.persons[i], nil
}

func (s *MemPersons) Create(_ context.Context, input models.PersonInput) (models.Person, error) {
	if err := input.Validate(); err != nil {
		return models.Person{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
retry:
	p := models.Person{ID: models.NewID(), Name: input.Name, Number: input.Number}
	if _, loaded := s.index[p.ID]; loaded {
		goto retry
	}
	s.index[p.ID] = len(s.persons)
	s.persons = append(s.persons, p)
	return p, nil
}

func (s *MemPersons) UpdateNumber(_ context.Context, id, number string) (models.Person, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return models.Person{}, err
	}
	if err := models.ValidateNumber(number); err != nil {
		return models.Person{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.Person{}, models.ErrNotFound
	}
	s.persons[i].Number = number
	s.persons[i].Revision++
	return s.persons[i], nil
}

func (s *MemPersons) Delete(_ context.Context, id string) error {
	id, err := models.ParseID(id)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	delete(s.index, id)
	s.persons = slices.Delete(s.persons, i, i+1)
	for j := i; j < len(s.persons); j++ {
		s.index[s.persons[j].ID] = j
	}
	return nil
}

func (s *MemPersons) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.persons), nil
}
