package service

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/store"
)

// fakeStore is an in-memory store.Store used by service tests.
type fakeStore struct {
	mu sync.Mutex

	users   map[string]*domain.User
	books   map[string]*domain.Book
	entries map[string]*domain.ShelfEntry
	reviews map[string]*domain.Review
	follows map[string]bool // follower|following

	// createBookHook runs inside CreateBook before the insert, letting
	// tests simulate a concurrent writer.
	createBookHook func()
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]*domain.User),
		books:   make(map[string]*domain.Book),
		entries: make(map[string]*domain.ShelfEntry),
		reviews: make(map[string]*domain.Review),
		follows: make(map[string]bool),
	}
}

func followKey(followerID, followingID string) string {
	return followerID + "|" + followingID
}

func (f *fakeStore) CreateBook(_ context.Context, book *domain.Book) error {
	if f.createBookHook != nil {
		f.createBookHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ExternalRef == book.ExternalRef {
			return store.ErrAlreadyExists
		}
		if b.ISBN != nil && book.ISBN != nil && *b.ISBN == *book.ISBN {
			return store.ErrAlreadyExists
		}
	}
	clone := *book
	f.books[book.ID] = &clone
	return nil
}

func (f *fakeStore) GetBook(_ context.Context, id string) (*domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetBookByExternalRef(_ context.Context, externalRef string) (*domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ExternalRef == externalRef {
			clone := *b
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetBookByISBN(_ context.Context, isbn string) (*domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ISBN != nil && *b.ISBN == isbn {
			clone := *b
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetBookCommunity(_ context.Context, bookID string) (*domain.BookCommunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum, count int
	for _, e := range f.entries {
		if e.BookID == bookID && e.Rating != nil {
			sum += *e.Rating
			count++
		}
	}
	community := &domain.BookCommunity{RatingCount: count}
	if count > 0 {
		avg := float64(sum) / float64(count)
		community.AverageRating = &avg
	}
	return community, nil
}

func (f *fakeStore) ListPopularBooks(_ context.Context, limit int) ([]domain.PopularBook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range f.reviews {
		if e, ok := f.entries[r.ShelfEntryID]; ok {
			counts[e.BookID]++
		}
	}
	var popular []domain.PopularBook
	for bookID, count := range counts {
		popular = append(popular, domain.PopularBook{Book: *f.books[bookID], ReviewCount: count})
	}
	sort.Slice(popular, func(i, j int) bool { return popular[i].ReviewCount > popular[j].ReviewCount })
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

func (f *fakeStore) UpsertShelfEntry(_ context.Context, entry *domain.ShelfEntry) (*domain.ShelfEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == entry.UserID && e.BookID == entry.BookID {
			e.Status = entry.Status
			e.Rating = entry.Rating
			e.UpdatedAt = entry.UpdatedAt
			clone := *e
			return &clone, nil
		}
	}
	clone := *entry
	f.entries[entry.ID] = &clone
	result := clone
	return &result, nil
}

func (f *fakeStore) GetShelfEntry(_ context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == userID && e.BookID == bookID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetShelfEntryByID(_ context.Context, id string) (*domain.ShelfEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpdateShelfRating(_ context.Context, entryID string, rating *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return store.ErrNotFound
	}
	e.Rating = rating
	return nil
}

func (f *fakeStore) ListShelf(_ context.Context, userID string) ([]domain.ShelfItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.ShelfItem
	for _, e := range f.entries {
		if e.UserID == userID {
			items = append(items, domain.ShelfItem{Entry: *e, Book: *f.books[e.BookID]})
		}
	}
	slices.SortFunc(items, func(a, b domain.ShelfItem) int {
		return b.Entry.UpdatedAt.Compare(a.Entry.UpdatedAt)
	})
	return items, nil
}

func (f *fakeStore) CreateReview(_ context.Context, review *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ShelfEntryID == review.ShelfEntryID {
			return store.ErrAlreadyExists
		}
	}
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeStore) GetReview(_ context.Context, id string) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reviews[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetReviewByShelfEntry(_ context.Context, shelfEntryID string) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ShelfEntryID == shelfEntryID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpdateReview(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Content = content
	return nil
}

func (f *fakeStore) DeleteReview(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeStore) ListReviewsByUser(_ context.Context, userID string) ([]domain.ReviewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.ReviewItem
	for _, r := range f.reviews {
		e, ok := f.entries[r.ShelfEntryID]
		if !ok || e.UserID != userID {
			continue
		}
		items = append(items, domain.ReviewItem{Review: *r, Book: *f.books[e.BookID], Rating: e.Rating})
	}
	slices.SortFunc(items, func(a, b domain.ReviewItem) int {
		return b.Review.CreatedAt.Compare(a.Review.CreatedAt)
	})
	return items, nil
}

func (f *fakeStore) ListReviewsByBook(_ context.Context, bookID string) ([]domain.FeedReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reviews []domain.FeedReview
	for _, r := range f.reviews {
		e, ok := f.entries[r.ShelfEntryID]
		if !ok || e.BookID != bookID {
			continue
		}
		reviews = append(reviews, domain.FeedReview{
			Review: *r,
			User:   *f.users[e.UserID],
			Book:   *f.books[e.BookID],
			Rating: e.Rating,
		})
	}
	slices.SortFunc(reviews, func(a, b domain.FeedReview) int {
		return b.Review.CreatedAt.Compare(a.Review.CreatedAt)
	})
	return reviews, nil
}

func (f *fakeStore) ListLatestReviews(_ context.Context, limit int) ([]domain.FeedReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reviews []domain.FeedReview
	for _, r := range f.reviews {
		e := f.entries[r.ShelfEntryID]
		reviews = append(reviews, domain.FeedReview{
			Review: *r,
			User:   *f.users[e.UserID],
			Book:   *f.books[e.BookID],
			Rating: e.Rating,
		})
	}
	slices.SortFunc(reviews, func(a, b domain.FeedReview) int {
		return b.Review.CreatedAt.Compare(a.Review.CreatedAt)
	})
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (f *fakeStore) CreateFollow(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := followKey(followerID, followingID)
	if f.follows[key] {
		return store.ErrAlreadyExists
	}
	f.follows[key] = true
	return nil
}

func (f *fakeStore) DeleteFollow(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.follows, followKey(followerID, followingID))
	return nil
}

func (f *fakeStore) FollowExists(_ context.Context, followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.follows[followKey(followerID, followingID)], nil
}

func (f *fakeStore) CountFollowing(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key := range f.follows {
		if len(key) > len(userID) && key[:len(userID)+1] == userID+"|" {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CountFollowers(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	suffix := "|" + userID
	for key := range f.follows {
		if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListFollowing(_ context.Context, userID string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []domain.User
	for key := range f.follows {
		if len(key) > len(userID)+1 && key[:len(userID)+1] == userID+"|" {
			if u, ok := f.users[key[len(userID)+1:]]; ok {
				users = append(users, *u)
			}
		}
	}
	return users, nil
}

func (f *fakeStore) ListFollowers(_ context.Context, userID string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []domain.User
	suffix := "|" + userID
	for key := range f.follows {
		if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			if u, ok := f.users[key[:len(key)-len(suffix)]]; ok {
				users = append(users, *u)
			}
		}
	}
	return users, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; ok {
		return store.ErrAlreadyExists
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return store.ErrAlreadyExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpdateUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, u := range f.users {
		if id != user.ID && u.Username == user.Username {
			return store.ErrAlreadyExists
		}
	}
	*existing = *user
	return nil
}

// seedCounter differentiates generated ids in tests.
var seedCounter int

func nextID(prefix string) string {
	seedCounter++
	return prefix + "-" + strconv.Itoa(seedCounter)
}
