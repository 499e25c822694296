package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainfavorites "seaberth/internal/domain/favorites"
	domainreviews "seaberth/internal/domain/reviews"
	domainrange "seaberth/internal/domain/shared/daterange"
)

// BoatRepository is an in-memory implementation for demos and tests.
type BoatRepository struct {
	mu    sync.RWMutex
	items map[domainboats.BoatID]*domainboats.Boat
}

func NewBoatRepository() *BoatRepository {
	return &BoatRepository{items: make(map[domainboats.BoatID]*domainboats.Boat)}
}

func (r *BoatRepository) ByID(ctx context.Context, id domainboats.BoatID) (*domainboats.Boat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	boat, ok := r.items[id]
	if !ok {
		return nil, domainboats.ErrNotFound
	}
	return boat, nil
}

// Save enforces the unique (name, location) pair before writing.
func (r *BoatRepository) Save(ctx context.Context, boat *domainboats.Boat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ID == boat.ID {
			continue
		}
		if strings.EqualFold(existing.Name, boat.Name) && strings.EqualFold(existing.Location, boat.Location) {
			return domainboats.ErrNameTaken
		}
	}
	boat.Version++
	r.items[boat.ID] = boat
	return nil
}

func (r *BoatRepository) Search(ctx context.Context, params domainboats.SearchParams) (domainboats.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainboats.Boat, 0, len(r.items))
	for _, boat := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainboats.SearchResult{}, ctx.Err()
			default:
			}
		}
		if opts.Matches(boat) {
			matches = append(matches, boat)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DailyRate.Amount == matches[j].DailyRate.Amount {
			return matches[i].Rating > matches[j].Rating
		}
		return matches[i].DailyRate.Amount < matches[j].DailyRate.Amount
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainboats.SearchResult{Items: matches[start:end], Total: total}, nil
}

func (r *BoatRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainboats.Boat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainboats.Boat, 0)
	for _, boat := range r.items {
		if boat.OwnerID == ownerID {
			matches = append(matches, boat)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *BoatRepository) IDsByOwner(ctx context.Context, ownerID string) ([]domainboats.BoatID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]domainboats.BoatID, 0)
	for _, boat := range r.items {
		if boat.OwnerID == ownerID {
			ids = append(ids, boat.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *BoatRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, boat := range r.items {
		if boat.OwnerID == ownerID {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

// BookingRepository stores bookings in memory. The conditional insert runs
// under the repository lock, so the conflict check and the write are a single
// atomic step.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return booking, nil
}

func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasConflictLocked(b.BoatID, b.Range, b.ID) {
		return domainbooking.ErrDateConflict
	}
	b.Version++
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(renterID)
	if id == "" {
		return nil, errors.New("memory: renter id required")
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.RenterID == id {
			matches = append(matches, booking)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *BookingRepository) List(ctx context.Context, params domainbooking.ListParams) (domainbooking.ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainbooking.Booking, 0, len(r.items))
	for _, booking := range r.items {
		if opts.Status != "" && booking.Status != opts.Status {
			continue
		}
		matches = append(matches, booking)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainbooking.ListResult{Items: matches[start:end], Total: total}, nil
}

func (r *BookingRepository) HasConflict(ctx context.Context, boatID domainboats.BoatID, dr domainrange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasConflictLocked(boatID, dr, ""), nil
}

func (r *BookingRepository) hasConflictLocked(boatID domainboats.BoatID, dr domainrange.DateRange, exclude domainbooking.BookingID) bool {
	for _, booking := range r.items {
		if booking.BoatID != boatID || booking.ID == exclude {
			continue
		}
		if !booking.IsActive() {
			continue
		}
		if booking.Range.Overlaps(dr) {
			return true
		}
	}
	return false
}

func (r *BookingRepository) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, booking := range r.items {
		if !booking.IsActive() {
			continue
		}
		if !booking.Range.EndedBefore(now) {
			continue
		}
		if err := booking.Complete(now); err != nil {
			return updated, err
		}
		booking.ClearEvents()
		booking.Version++
		updated++
	}
	return updated, nil
}

func (r *BookingRepository) DeleteByRenterOrBoats(ctx context.Context, renterID string, boatIDs []domainboats.BoatID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make(map[domainboats.BoatID]struct{}, len(boatIDs))
	for _, id := range boatIDs {
		owned[id] = struct{}{}
	}
	var removed int64
	for id, booking := range r.items {
		_, onOwnedBoat := owned[booking.BoatID]
		if booking.RenterID == renterID || onOwnedBoat {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

// ReviewRepository keeps reviews in memory with the (author, boat) uniqueness
// the domain requires.
type ReviewRepository struct {
	mu    sync.RWMutex
	items map[domainreviews.ReviewID]*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{items: make(map[domainreviews.ReviewID]*domainreviews.Review)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.items[id]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	return review, nil
}

func (r *ReviewRepository) ByAuthorAndBoat(ctx context.Context, authorID string, boatID domainboats.BoatID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.items {
		if review.AuthorID == authorID && review.BoatID == boatID {
			return review, nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewRepository) ListByBoat(ctx context.Context, params domainreviews.ListParams) (domainreviews.ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if review.BoatID != opts.BoatID {
			continue
		}
		if opts.Rating > 0 && review.Rating != opts.Rating {
			continue
		}
		matches = append(matches, review)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainreviews.ListResult{Items: matches[start:end], Total: total}, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ID == review.ID {
			continue
		}
		if existing.AuthorID == review.AuthorID && existing.BoatID == review.BoatID {
			return domainreviews.ErrDuplicate
		}
	}
	r.items[review.ID] = review
	return nil
}

func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.items[id]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	review.Helpful++
	return review, nil
}

func (r *ReviewRepository) AverageRating(ctx context.Context, boatID domainboats.BoatID) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total, count int
	for _, review := range r.items {
		if review.BoatID == boatID {
			total += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return domainreviews.Round1(float64(total) / float64(count)), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreviews.ReviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainreviews.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ReviewRepository) DeleteByAuthorOrBoats(ctx context.Context, authorID string, boatIDs []domainboats.BoatID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make(map[domainboats.BoatID]struct{}, len(boatIDs))
	for _, id := range boatIDs {
		owned[id] = struct{}{}
	}
	var removed int64
	for id, review := range r.items {
		_, onOwnedBoat := owned[review.BoatID]
		if review.AuthorID == authorID || onOwnedBoat {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

// FavoriteRepository keeps per-user starred boats.
type FavoriteRepository struct {
	mu    sync.RWMutex
	items map[domainfavorites.FavoriteID]*domainfavorites.Favorite
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{items: make(map[domainfavorites.FavoriteID]*domainfavorites.Favorite)}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *domainfavorites.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.UserID == fav.UserID && existing.BoatID == fav.BoatID {
			return domainfavorites.ErrAlreadyFavorite
		}
	}
	r.items[fav.ID] = fav
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID string, boatID domainboats.BoatID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, fav := range r.items {
		if fav.UserID == userID && fav.BoatID == boatID {
			delete(r.items, id)
			return nil
		}
	}
	return domainfavorites.ErrNotFound
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domainfavorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainfavorites.Favorite, 0)
	for _, fav := range r.items {
		if fav.UserID == userID {
			matches = append(matches, fav)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *FavoriteRepository) DeleteByUserOrBoats(ctx context.Context, userID string, boatIDs []domainboats.BoatID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make(map[domainboats.BoatID]struct{}, len(boatIDs))
	for _, id := range boatIDs {
		owned[id] = struct{}{}
	}
	var removed int64
	for id, fav := range r.items {
		_, onOwnedBoat := owned[fav.BoatID]
		if fav.UserID == userID || onOwnedBoat {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

var (
	_ domainboats.Repository     = (*BoatRepository)(nil)
	_ domainbooking.Repository   = (*BookingRepository)(nil)
	_ domainreviews.Repository   = (*ReviewRepository)(nil)
	_ domainfavorites.Repository = (*FavoriteRepository)(nil)
)
