package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
	"textile-store/internal/service/memstore"
)

func TestRate(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	silk := fabric("SUT", 120000, 10)
	user := &models.User{ID: primitive.NewObjectID(), Name: "Siti"}

	completed := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: user.ID,
		Status: models.OrderStatusCompleted,
		Items:  []models.OrderItem{{ProductID: cotton.ID, Quantity: 2}},
	}
	shipped := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: user.ID,
		Status: models.OrderStatusShipped,
		Items:  []models.OrderItem{{ProductID: cotton.ID, Quantity: 1}},
	}
	foreign := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Status: models.OrderStatusCompleted,
		Items:  []models.OrderItem{{ProductID: cotton.ID, Quantity: 1}},
	}

	products := memstore.NewProducts(cotton, silk)
	inval := &invalidations{}
	s := NewRatingService(memstore.NewRatings(), memstore.NewOrders(completed, shipped, foreign), products, inval, testLog)
	ctx := context.Background()

	_, err := s.Rate(ctx, user, cotton.ID, completed.ID, 6, "")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	_, err = s.Rate(ctx, user, cotton.ID, foreign.ID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.Rate(ctx, user, cotton.ID, shipped.ID, 5, "")
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)

	_, err = s.Rate(ctx, user, silk.ID, completed.ID, 5, "")
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)

	r, err := s.Rate(ctx, user, cotton.ID, completed.ID, 4, " adem dan halus ")
	require.NoError(t, err)
	assert.Equal(t, "adem dan halus", r.Comment)
	assert.Equal(t, "Siti", r.UserName)

	_, err = s.Rate(ctx, user, cotton.ID, completed.ID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	p, err := products.FindByID(ctx, cotton.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.RatingCount)
	assert.InDelta(t, 4.0, p.RatingAvg, 0.001)
	assert.Contains(t, inval.ids, cotton.ID)

	page, err := s.ListProductRatings(ctx, cotton.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestNextRatingAverage(t *testing.T) {
	avg := 0.0
	var count int64
	for _, stars := range []int{5, 4, 3} {
		avg = models.NextRatingAverage(avg, count, stars)
		count++
	}
	assert.InDelta(t, 4.0, avg, 0.0001)
}
