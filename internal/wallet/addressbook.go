package wallet

import "fmt"

// SetLabel attaches a label to an address. An empty label removes the entry.
func (m *Manager) SetLabel(address, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return fmt.Errorf("no wallet loaded")
	}
	if label == "" {
		delete(m.file.Labels, address)
	} else {
		m.file.Labels[address] = label
	}
	return m.saveLocked()
}

// LabelFor returns the label attached to an address, or "".
func (m *Manager) LabelFor(address string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return ""
	}
	return m.file.Labels[address]
}

// UsedReceivingAddresses returns the wallet addresses found in incoming
// records, oldest first, without duplicates.
func (m *Manager) UsedReceivingAddresses() []string {
	return m.recordAddresses(func(t TxType) bool {
		return t == TxTypeReceive || t == TxTypeStakeReward
	})
}

// UsedSendingAddresses returns the external addresses the wallet has paid,
// oldest first, without duplicates.
func (m *Manager) UsedSendingAddresses() []string {
	return m.recordAddresses(func(t TxType) bool { return t == TxTypeSend })
}

func (m *Manager) recordAddresses(match func(TxType) bool) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var addrs []string
	for _, rec := range m.file.Records {
		if rec.Address == "" || !match(rec.Type) {
			continue
		}
		if _, ok := seen[rec.Address]; ok {
			continue
		}
		seen[rec.Address] = struct{}{}
		addrs = append(addrs, rec.Address)
	}
	return addrs
}
