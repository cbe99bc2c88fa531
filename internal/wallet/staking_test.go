package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStakingInfoWeight(t *testing.T) {
	m := newLoadedManager(t)
	m.SetChainSource(&fakeChainSource{tip: 400})

	// 301 confirmations: mature. 51 confirmations: not yet.
	require.NoError(t, m.ProcessTransaction(receiveTx(t, m, 80_000, 0x40), 100))
	require.NoError(t, m.ProcessTransaction(receiveTx(t, m, 20_000, 0x41), 350))

	info := m.StakingInfo()
	require.False(t, info.Enabled)
	require.False(t, info.Active)
	require.Equal(t, int64(80_000), info.Weight)
	require.Zero(t, info.NetworkWeight)

	require.NoError(t, m.SetStakingEnabled(true))
	info = m.StakingInfo()
	require.True(t, info.Enabled)
	require.True(t, info.Active)

	// The toggle survives a reload.
	require.True(t, readWalletFile(t, m).StakingEnabled)
}

func TestStakingInactiveWhileLocked(t *testing.T) {
	m := newLoadedManager(t)
	m.SetChainSource(&fakeChainSource{tip: 400})
	require.NoError(t, m.ProcessTransaction(receiveTx(t, m, 80_000, 0x42), 100))
	require.NoError(t, m.SetStakingEnabled(true))
	require.True(t, m.StakingInfo().Active)

	require.NoError(t, m.Encrypt("pass"))
	info := m.StakingInfo()
	require.True(t, info.Enabled)
	require.False(t, info.Active, "no key material while locked")

	require.NoError(t, m.Unlock("pass", true))
	info = m.StakingInfo()
	require.True(t, info.Active)
	require.True(t, info.UnlockedForStakingOnly)
}

func TestStakingInfoWithoutChainSource(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.ProcessTransaction(receiveTx(t, m, 80_000, 0x43), 100))
	require.NoError(t, m.SetStakingEnabled(true))

	// No tip known, so nothing counts as mature.
	info := m.StakingInfo()
	require.Zero(t, info.Weight)
	require.False(t, info.Active)
}
