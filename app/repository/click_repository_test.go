package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/boutiqa/app/models"
)

func TestClickCounts(t *testing.T) {
	db := openTestDB(t)
	repo := NewClickRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&models.ServiceClick{ServiceName: "whatsapp"}))
	}
	require.NoError(t, repo.Create(&models.ServiceClick{ServiceName: "phone"}))

	total, err := repo.CountBetween(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	future := time.Now().Add(time.Hour)
	none, err := repo.CountBetween(&future, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), none)

	byService, err := repo.CountByService()
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, row := range byService {
		counts[row.ServiceName] = row.Count
	}
	assert.Equal(t, int64(3), counts["whatsapp"])
	assert.Equal(t, int64(1), counts["phone"])
}
