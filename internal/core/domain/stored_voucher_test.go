package domain_test

import (
	"testing"
	"time"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestStoredVoucherNeedsBackup(t *testing.T) {
	signer := newTestSigner(t)
	voucher := newSignedVoucher(t, signer, newTestSecret())

	stored, err := domain.NewStoredVoucher(voucher, "gift card")
	require.NoError(t, err)

	t.Run("never_backed_up", func(t *testing.T) {
		require.True(t, stored.NeedsBackup())
	})

	t.Run("backed_up_after_add", func(t *testing.T) {
		stored.MarkBackedUp(stored.AddedAt.Add(time.Minute))
		require.False(t, stored.NeedsBackup())
	})

	t.Run("added_after_last_backup", func(t *testing.T) {
		stored.AddedAt = stored.LastBackupAt.Add(time.Minute)
		require.True(t, stored.NeedsBackup())
	})
}

func TestStoredVoucherUpdateStatus(t *testing.T) {
	signer := newTestSigner(t)
	voucher := newSignedVoucher(t, signer, newTestSecret())
	stored, err := domain.NewStoredVoucher(voucher, "")
	require.NoError(t, err)
	require.Nil(t, stored.CachedStatus)

	at := time.Now()
	stored.UpdateStatus(domain.StatusRedeemed, at)
	require.NotNil(t, stored.CachedStatus)
	require.Equal(t, domain.StatusRedeemed, *stored.CachedStatus)
	require.Equal(t, at, *stored.StatusUpdatedAt)
	require.Equal(t, voucher.Id(), stored.Id())
}

func TestNewStoredVoucherRequiresVoucher(t *testing.T) {
	_, err := domain.NewStoredVoucher(nil, "label")
	require.Error(t, err)
}
