package repositories

import (
	"context"
	"sort"
	"sync"

	"rawblog/app/models"
)

// MemoryPostRepository keeps posts in a map guarded by a single lock.
// Every operation holds the lock for its whole duration.
type MemoryPostRepository struct {
	mutex    sync.Mutex
	posts    map[int]*models.Post
	lastID   int
	strategy IDStrategy
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository(strategy IDStrategy) *MemoryPostRepository {
	if strategy == "" {
		strategy = IDSize
	}
	return &MemoryPostRepository{
		posts:    make(map[int]*models.Post),
		strategy: strategy,
	}
}

func (m *MemoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.strategy == IDSize {
		post.ID = len(m.posts) + 1
	} else {
		m.lastID++
		post.ID = m.lastID
	}

	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *MemoryPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	found := *post
	return &found, nil
}

func (m *MemoryPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		p := *post
		posts = append(posts, &p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *MemoryPostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[post.ID]
	if !exists {
		return ErrNotFound
	}
	existing.Title = post.Title
	existing.Content = post.Content
	return nil
}

func (m *MemoryPostRepository) Delete(ctx context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MemoryPostRepository) Count(ctx context.Context) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.posts), nil
}

// Clear removes every post and resets the ID counter
func (m *MemoryPostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.posts = make(map[int]*models.Post)
	m.lastID = 0
}

func (m *MemoryPostRepository) Close() error {
	return nil
}
