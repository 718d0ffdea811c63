package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memReviewRepo is an in-memory ReviewRepository keyed by ID.
type memReviewRepo struct {
	mu      sync.Mutex
	nextID  int
	reviews map[string]*models.Review
	clock   time.Time

	// beforeCreate runs under the lock at the start of Create
	beforeCreate func(reviews map[string]*models.Review)
	creates      int
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{
		reviews: map[string]*models.Review{},
		clock:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memReviewRepo) tick() models.Timestamp {
	m.clock = m.clock.Add(time.Minute)
	return models.NewTimestamp(m.clock)
}

func (m *memReviewRepo) Create(_ context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.beforeCreate != nil {
		m.beforeCreate(m.reviews)
		m.beforeCreate = nil
	}
	for _, existing := range m.reviews {
		if existing.CafeID == r.CafeID && existing.UserID == r.UserID {
			return &domain.ConflictError{Message: "You have already reviewed this cafe", ResourceType: "review", ResourceID: existing.ID}
		}
	}
	m.nextID++
	r.ID = fmt.Sprintf("r%d", m.nextID)
	r.CreatedAt = m.tick()
	stored := *r
	m.reviews[r.ID] = &stored
	return nil
}

func (m *memReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "review not found"}
	}
	out := *r
	return &out, nil
}

func (m *memReviewRepo) Update(_ context.Context, id string, u *models.ReviewUpdate) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "review not found"}
	}
	if u.Rating != nil {
		r.Rating = *u.Rating
	}
	if u.Review != nil {
		r.Review = *u.Review
	}
	ts := m.tick()
	r.UpdatedAt = &ts
	out := *r
	return &out, nil
}

func (m *memReviewRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return &domain.NotFoundError{Message: "review not found"}
	}
	delete(m.reviews, id)
	return nil
}

func (m *memReviewRepo) list(keep func(*models.Review) bool) []models.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, r := range m.reviews {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt.Time) })
	return out
}

func (m *memReviewRepo) ListByCafe(_ context.Context, cafeID string) ([]models.Review, error) {
	return m.list(func(r *models.Review) bool { return r.CafeID == cafeID }), nil
}

func (m *memReviewRepo) FindByCafeAndUser(_ context.Context, cafeID, userID string) (*models.Review, error) {
	found := m.list(func(r *models.Review) bool { return r.CafeID == cafeID && r.UserID == userID })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (m *memReviewRepo) ListByUser(_ context.Context, userID string) ([]models.Review, error) {
	return m.list(func(r *models.Review) bool { return r.UserID == userID }), nil
}

// memFavoriteRepo is an in-memory FavoriteRepository.
type memFavoriteRepo struct {
	mu     sync.Mutex
	nextID int
	favs   []models.FavoriteCafe
	lists  int
}

func (m *memFavoriteRepo) Create(_ context.Context, f *models.FavoriteCafe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.favs {
		if existing.UserID == f.UserID && existing.CafeID == f.CafeID {
			return &domain.ConflictError{Message: "Cafe is already in your favorites", ResourceType: "favorite"}
		}
	}
	m.nextID++
	f.ID = fmt.Sprintf("f%d", m.nextID)
	f.AddedAt = models.NewTimestamp(time.Date(2024, 5, 1, 12, m.nextID, 0, 0, time.UTC))
	m.favs = append(m.favs, *f)
	return nil
}

func (m *memFavoriteRepo) GetByID(_ context.Context, id string) (*models.FavoriteCafe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favs {
		if f.ID == id {
			out := f
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "favorite not found"}
}

func (m *memFavoriteRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.favs {
		if f.ID == id {
			m.favs = append(m.favs[:i], m.favs[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Message: "favorite not found"}
}

func (m *memFavoriteRepo) ListByUser(_ context.Context, userID string) ([]models.FavoriteCafe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := []models.FavoriteCafe{}
	for i := len(m.favs) - 1; i >= 0; i-- {
		if m.favs[i].UserID == userID {
			out = append(out, m.favs[i])
		}
	}
	return out, nil
}

func (m *memFavoriteRepo) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

// memProfileRepo is an in-memory UserProfileRepository.
type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[string]models.UserProfile{}}
}

func (m *memProfileRepo) GetByUID(_ context.Context, uid string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProfileRepo) Upsert(_ context.Context, p *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UID] = *p
	return nil
}

// memLocalStore is an in-memory LocalStore.
type memLocalStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemLocalStore() *memLocalStore {
	return &memLocalStore{values: map[string]string{}}
}

func (m *memLocalStore) Get(_ context.Context, deviceID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[deviceID+"/"+key]
	return v, ok, nil
}

func (m *memLocalStore) Set(_ context.Context, deviceID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[deviceID+"/"+key] = value
	return nil
}

func (m *memLocalStore) Delete(_ context.Context, deviceID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, deviceID+"/"+key)
	return nil
}

// passthroughTx runs fn directly and counts calls.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	p.calls++
	return fn(ctx)
}

// ownerAuthorizer checks ownership against the in-memory repos.
type ownerAuthorizer struct {
	reviews   *memReviewRepo
	favorites *memFavoriteRepo
}

func (a *ownerAuthorizer) CanModifyReview(ctx context.Context, userID, reviewID string) error {
	r, err := a.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return &domain.ForbiddenError{Message: "not your review"}
	}
	return nil
}

func (a *ownerAuthorizer) CanModifyFavorite(ctx context.Context, userID, favoriteID string) error {
	f, err := a.favorites.GetByID(ctx, favoriteID)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return &domain.ForbiddenError{Message: "not your favorite"}
	}
	return nil
}

// memBlobStore records uploads and deletes.
type memBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string][]byte{}}
}

func (m *memBlobStore) Upload(_ context.Context, path, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.objects[path] = data
	return "https://blobs.example.com/" + path, nil
}

func (m *memBlobStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}
