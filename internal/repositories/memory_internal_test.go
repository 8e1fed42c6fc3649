package repositories

import (
	"context"
	"fmt"
	"testing"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductRepository_KeepsOnlyLatestPerTitle(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, repo.Save(ctx, &models.ProductResponse{Title: "Lamp", Price: float64(i), Quantity: 1}))
	}
	require.NoError(t, repo.Save(ctx, &models.ProductResponse{Title: "Desk", Quantity: 1}))

	assert.Len(t, repo.latest, 2)
	assert.Equal(t, 99.0, repo.latest["Lamp"].Price)
}

func TestMemoryUserRepository_KeepsOnlyLatestPerEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, repo.Save(ctx, &models.UserResponse{Name: fmt.Sprintf("user%d", i), Email: "same@x.com"}))
		require.NoError(t, repo.Save(ctx, &models.UserResponse{Name: "no email"}))
	}

	assert.Len(t, repo.byEmail, 1)
	assert.Equal(t, "user49", repo.byEmail["same@x.com"].Name)
}
