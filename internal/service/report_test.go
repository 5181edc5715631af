package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycapi/internal/model"
)

func TestReportService_Statistics(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	pan := env.upload(t, "o1", model.DocumentTypePAN)
	env.upload(t, "o1", model.DocumentTypeAadhar)
	env.upload(t, "o2", model.DocumentTypePassport)
	gone := env.upload(t, "o2", model.DocumentTypeAadhar)
	env.verify(t, pan.ID)
	require.NoError(t, env.documents.Delete(context.Background(), gone.ID, "o2", "o2"))

	soon := fixedNow.Add(10 * 24 * time.Hour)
	p := env.profile(t, "o2")
	p.Status = model.ProfileStatusVerified
	p.KYCExpiryDate = &soon
	require.NoError(t, env.profiles.Update(context.Background(), p))

	stats, err := env.reports.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, 1, stats.DocumentsByStatus[model.DocumentStatusVerified])
	assert.Equal(t, 2, stats.DocumentsByStatus[model.DocumentStatusPending])
	assert.Equal(t, 1, stats.DocumentsByType[model.DocumentTypeAadhar])
	assert.Equal(t, 2, stats.TotalProfiles)
	assert.Equal(t, 1, stats.ProfilesByStatus[model.ProfileStatusInProgress])
	assert.Equal(t, 1, stats.ProfilesByStatus[model.ProfileStatusVerified])
	assert.Equal(t, 1, stats.ExpiringSoon)
}

func TestReportService_ExpiringProfiles(t *testing.T) {
	env := newTestEnv(t)
	for owner, days := range map[string]int{"o1": 5, "o2": 40} {
		_, err := env.profileSvc.GetProfile(context.Background(), owner)
		require.NoError(t, err)
		p := env.profile(t, owner)
		exp := fixedNow.AddDate(0, 0, days)
		p.Status = model.ProfileStatusVerified
		p.KYCExpiryDate = &exp
		require.NoError(t, env.profiles.Update(context.Background(), p))
	}

	got, err := env.reports.ExpiringProfiles(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].OwnerID)

	got, err = env.reports.ExpiringProfiles(context.Background(), 60)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	for _, days := range []int{0, 366} {
		_, err := env.reports.ExpiringProfiles(context.Background(), days)
		assert.ErrorIs(t, err, ErrValidation)
	}
}
