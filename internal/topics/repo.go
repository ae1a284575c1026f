package topics

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"smartpath-backend/internal/ai"
)

// Topic groups a set of task descriptors under a named plan with a date
// range. It is a prototype aggregate kept in memory, separate from the
// SQL-backed Goal.
type Topic struct {
	ID         string              `json:"id"`
	Topic      string              `json:"topic"`
	StartDate  string              `json:"start_date"`
	FinishDate string              `json:"finish_date"`
	Tasks      []ai.TaskDescriptor `json:"tasks"`
}

var ErrNotFound = errors.New("topic not found")

// Repository is a mutex-guarded in-memory topic store. Handlers get it
// injected instead of reaching for package-level state, so concurrent
// requests see a defined ordering.
type Repository struct {
	mu     sync.RWMutex
	topics map[string]Topic
	order  []string
}

func NewRepository() *Repository {
	return &Repository{
		topics: make(map[string]Topic),
	}
}

func (r *Repository) Create(t Topic) Topic {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = uuid.NewString()
	r.topics[t.ID] = t
	r.order = append(r.order, t.ID)
	return t
}

func (r *Repository) Get(id string) (Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[id]
	if !ok {
		return Topic{}, ErrNotFound
	}
	return t, nil
}

// List returns topics in insertion order.
func (r *Repository) List() []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Topic, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.topics[id])
	}
	return out
}

// Update is whole-record replacement; the id in the path wins over any id in
// the body.
func (r *Repository) Update(id string, t Topic) (Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[id]; !ok {
		return Topic{}, ErrNotFound
	}
	t.ID = id
	r.topics[id] = t
	return t, nil
}

func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[id]; !ok {
		return ErrNotFound
	}
	delete(r.topics, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
