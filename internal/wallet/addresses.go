package wallet

import (
	"fmt"

	"github.com/talonwallet/talon-desktop/internal/rescan"
)

// CurrentReceiveAddress returns the active receive address.
func (m *Manager) CurrentReceiveAddress() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return "", fmt.Errorf("no wallet loaded")
	}
	addr, _, err := m.addressAtLocked(branchExternal, m.file.ReceiveIndex)
	return addr, err
}

// NewReceiveAddress advances the receive index and returns the fresh address.
func (m *Manager) NewReceiveAddress() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return "", fmt.Errorf("no wallet loaded")
	}

	m.file.ReceiveIndex++
	addr, _, err := m.addressAtLocked(branchExternal, m.file.ReceiveIndex)
	if err != nil {
		m.file.ReceiveIndex--
		return "", err
	}
	if err := m.saveLocked(); err != nil {
		return "", err
	}
	return addr, nil
}

// AddressAt derives the external receive address at index.
func (m *Manager) AddressAt(index uint32) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addr, _, err := m.addressAtLocked(branchExternal, index)
	return addr, err
}

// addressAtLocked derives the address and pkScript at branch/index. The
// caller must hold m.mu. Works while locked: derivation runs off the
// neutered account key.
func (m *Manager) addressAtLocked(branch, index uint32) (string, []byte, error) {
	if m.account == nil {
		return "", nil, fmt.Errorf("wallet key material unavailable")
	}
	key, err := deriveChildKey(m.account, branch, index)
	if err != nil {
		return "", nil, err
	}
	addr, script, err := keyScript(key, m.params)
	if err != nil {
		return "", nil, err
	}
	return addr.EncodeAddress(), script, nil
}

// nextChangeAddressLocked advances the change index and derives the script
// change outputs pay to. The caller must hold m.mu.
func (m *Manager) nextChangeAddressLocked() (string, []byte, error) {
	m.file.ChangeIndex++
	addr, script, err := m.addressAtLocked(branchChange, m.file.ChangeIndex)
	if err != nil {
		m.file.ChangeIndex--
		return "", nil, err
	}
	return addr, script, nil
}

// WatchedTargets returns the scripts the rescanner replays: both branches up
// to their highest used index plus the configured gap.
func (m *Manager) WatchedTargets() ([]rescan.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return nil, fmt.Errorf("no wallet loaded")
	}

	gap := m.config.GetUint32("address_gap")
	if gap == 0 {
		gap = 1
	}

	var targets []rescan.Target
	for _, branch := range []struct {
		id   uint32
		last uint32
	}{
		{branchExternal, m.file.ReceiveIndex},
		{branchChange, m.file.ChangeIndex},
	} {
		for i := uint32(0); i <= branch.last+gap; i++ {
			addr, script, err := m.addressAtLocked(branch.id, i)
			if err != nil {
				return nil, err
			}
			targets = append(targets, rescan.Target{Address: addr, PkScript: script})
		}
	}
	return targets, nil
}

// ownScripts maps pkScript bytes to the owning address for the watch window.
func (m *Manager) ownScripts() (map[string]string, error) {
	targets, err := m.WatchedTargets()
	if err != nil {
		return nil, err
	}
	scripts := make(map[string]string, len(targets))
	for _, t := range targets {
		scripts[string(t.PkScript)] = t.Address
	}
	return scripts, nil
}

// IsOwnAddress reports whether addr is inside the wallet's watch window.
func (m *Manager) IsOwnAddress(addr string) bool {
	targets, err := m.WatchedTargets()
	if err != nil {
		return false
	}
	for _, t := range targets {
		if t.Address == addr {
			return true
		}
	}
	return false
}

// indexOfAddress locates addr inside the watch window.
func (m *Manager) indexOfAddress(addr string) (branch, index uint32, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return 0, 0, false
	}

	gap := m.config.GetUint32("address_gap")
	if gap == 0 {
		gap = 1
	}

	for _, b := range []struct {
		id   uint32
		last uint32
	}{
		{branchExternal, m.file.ReceiveIndex},
		{branchChange, m.file.ChangeIndex},
	} {
		for i := uint32(0); i <= b.last+gap; i++ {
			candidate, _, err := m.addressAtLocked(b.id, i)
			if err != nil {
				return 0, 0, false
			}
			if candidate == addr {
				return b.id, i, true
			}
		}
	}
	return 0, 0, false
}
