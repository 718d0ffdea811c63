package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/sanitizer"
)

type reviewFixture struct {
	repo *memReviewRepo
	tx   *passthroughTx
	svc  services.ReviewService
}

func newReviewFixture() *reviewFixture {
	repo := newMemReviewRepo()
	tx := &passthroughTx{}
	auth := &ownerAuthorizer{reviews: repo, favorites: &memFavoriteRepo{}}
	return &reviewFixture{
		repo: repo,
		tx:   tx,
		svc:  NewReviewService(repo, auth, tx, sanitizer.NewTextSanitizer(), testLogger()),
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func review(cafe, user string, rating int, text string) *models.Review {
	return &models.Review{CafeID: cafe, CafeName: "Cafe " + cafe, UserID: user, UserName: "Ana", Rating: rating, Review: text}
}

func TestReviewService_AddValidation(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		text    string
		wantMsg string
		field   string
	}{
		{name: "missing rating", rating: 0, text: "Nice", wantMsg: "Please select a rating", field: "rating"},
		{name: "rating too high", rating: 6, text: "Nice", wantMsg: "Rating must be between 1 and 5", field: "rating"},
		{name: "blank text", rating: 4, text: "   ", wantMsg: "Please write a review", field: "review"},
		{name: "501 runes", rating: 4, text: strings.Repeat("é", 501), wantMsg: "Review must be 500 characters or less", field: "review"},
		{name: "rating reported before text", rating: 0, text: "", wantMsg: "Please select a rating", field: "review"},
		{name: "markup", rating: 4, text: "Best latte <b>in town</b>", wantMsg: "Reviews can't contain HTML tags", field: "review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture()
			_, err := f.svc.Add(context.Background(), review("c1", "u1", tt.rating, tt.text))

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantMsg, vErr.Message)
			assert.Contains(t, vErr.Fields, tt.field)
			assert.Empty(t, f.repo.reviews, "nothing stored on validation failure")
		})
	}
}

func TestReviewService_AddAcceptsExactlyMaxLength(t *testing.T) {
	f := newReviewFixture()
	text := strings.Repeat("a", 500)

	id, err := f.svc.Add(context.Background(), review("c1", "u1", 5, "  "+text+"  "))
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, text, stored.Review)
}

func TestReviewService_AddRequiresSession(t *testing.T) {
	f := newReviewFixture()
	_, err := f.svc.Add(context.Background(), review("c1", "", 5, "Great"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReviewService_AddDuplicateConflicts(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	_, err := f.svc.Add(ctx, review("c1", "u1", 5, "Great"))
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, review("c1", "u1", 3, "Changed my mind"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReviewService_UpdateAndDeleteCheckOwnership(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	id, err := f.svc.Add(ctx, review("c1", "owner", 4, "Good"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "intruder", id, &models.ReviewUpdate{Rating: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, "intruder", id), domain.ErrForbidden)

	updated, err := f.svc.Update(ctx, "owner", id, &models.ReviewUpdate{Review: strPtr(" Even better ")})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Even better", updated.Review)
	require.NotNil(t, updated.UpdatedAt)

	require.NoError(t, f.svc.Delete(ctx, "owner", id))
	_, err = f.repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewService_UpdateRejectsEmptyPatch(t *testing.T) {
	f := newReviewFixture()
	_, err := f.svc.Update(context.Background(), "u1", "r1", &models.ReviewUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReviewService_ComputeRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		avg     float64
	}{
		{name: "no reviews", ratings: nil, avg: 0},
		{name: "single", ratings: []int{4}, avg: 4},
		{name: "rounds to one decimal", ratings: []int{5, 4, 4}, avg: 4.3},
		{name: "rounds half up", ratings: []int{5, 4, 4, 4}, avg: 4.3},
		{name: "four five five", ratings: []int{4, 5, 5}, avg: 4.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture()
			ctx := context.Background()
			for i, r := range tt.ratings {
				_, err := f.svc.Add(ctx, review("c1", string(rune('a'+i)), r, "ok"))
				require.NoError(t, err)
			}

			rating, err := f.svc.ComputeRating(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, tt.avg, rating.AverageRating)
			assert.Equal(t, len(tt.ratings), rating.TotalReviews)
			assert.Len(t, rating.Reviews, len(tt.ratings))
		})
	}
}

func TestReviewService_ListsNewestFirst(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	for _, cafe := range []string{"c1", "c2", "c3"} {
		_, err := f.svc.Add(ctx, review(cafe, "u1", 4, "ok"))
		require.NoError(t, err)
	}

	mine, err := f.svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "c3", mine[0].CafeID)
	assert.Equal(t, "c1", mine[2].CafeID)

	none, err := f.svc.ListForUserAndCafe(ctx, "c9", "u1")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReviewService_SubmitAddsThenUpdates(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	req := &services.SubmitReviewRequest{UserID: "u1", UserName: "", CafeID: "c1", CafeName: "Blue Bottle", Rating: 4, Review: "Solid"}

	first, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, AnonymousUserName, first.UserName)

	req.Rating, req.Review = 2, "Went downhill"
	second, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Rating)
	assert.Len(t, f.repo.reviews, 1)
	assert.Equal(t, 2, f.tx.calls)
}

func TestReviewService_SubmitRecoversFromInsertRace(t *testing.T) {
	f := newReviewFixture()

	// Another request inserts between our lookup and our insert
	f.repo.beforeCreate = func(reviews map[string]*models.Review) {
		reviews["winner"] = &models.Review{ID: "winner", CafeID: "c1", UserID: "u1", Rating: 5, Review: "First!"}
	}

	got, err := f.svc.Submit(context.Background(), &services.SubmitReviewRequest{UserID: "u1", CafeID: "c1", Rating: 3, Review: "Second"})
	require.NoError(t, err)
	assert.Equal(t, "winner", got.ID)
	assert.Equal(t, 3, got.Rating)
	assert.Equal(t, "Second", got.Review)
	assert.Len(t, f.repo.reviews, 1)
}

func TestReviewService_TextRoundTrips(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "plain", text: "Great espresso and quiet corner."},
		{name: "heart", text: "I <3 the oat latte"},
		{name: "angle comparison", text: "Better than Philz > Peet's"},
		{name: "ampersands", text: `Tom & Jerry's "best" a&amp;b`},
		{name: "unicode", text: "Café crème ☕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture()
			ctx := context.Background()

			_, err := f.svc.Add(ctx, review("cafe_1", "u1", 5, "  "+tt.text+"\n"))
			require.NoError(t, err)

			got, err := f.svc.ListForUserAndCafe(ctx, "cafe_1", "u1")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, 5, got.Rating)
			assert.Equal(t, tt.text, got.Review)
		})
	}
}

func TestReviewService_UpdateRejectsMarkup(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	id, err := f.svc.Add(ctx, review("c1", "u1", 4, "Good"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "u1", id, &models.ReviewUpdate{Review: strPtr("<i>meh</i>")})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Reviews can't contain HTML tags", vErr.Fields["review"])

	stored, err := f.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Good", stored.Review)
}

func TestReviewService_ComputeRatingIsIdempotent(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	for i, r := range []int{4, 5, 5} {
		_, err := f.svc.Add(ctx, review("c1", string(rune('a'+i)), r, "ok"))
		require.NoError(t, err)
	}

	first, err := f.svc.ComputeRating(ctx, "c1")
	require.NoError(t, err)
	second, err := f.svc.ComputeRating(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, 4.7, first.AverageRating)
	assert.Equal(t, first.AverageRating, second.AverageRating)
	assert.Equal(t, first.TotalReviews, second.TotalReviews)
	assert.Equal(t, 3, second.TotalReviews)
}

func TestResolveUserName(t *testing.T) {
	assert.Equal(t, "Ana", ResolveUserName("  Ana ", "x@y.z"))
	assert.Equal(t, "ana.b", ResolveUserName("", "ana.b@example.com"))
	assert.Equal(t, AnonymousUserName, ResolveUserName("", ""))
}
