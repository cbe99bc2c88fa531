package controller

// Page identifies one of the top-level GUI pages.
type Page int

const (
	PageOverview Page = iota
	PageHistory
	PageNodes
	PageStats
	PageFAQ
	PageStaking
)

func (p Page) String() string {
	switch p {
	case PageOverview:
		return "overview"
	case PageHistory:
		return "history"
	case PageNodes:
		return "nodes"
	case PageStats:
		return "stats"
	case PageFAQ:
		return "faq"
	case PageStaking:
		return "staking"
	default:
		return "unknown"
	}
}

// CurrentPage returns the page the GUI should be showing.
func (m *Manager) CurrentPage() Page {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.page
}

// OverviewHome reports whether the overview page is in its toolbox home mode
// instead of the transaction list.
func (m *Manager) OverviewHome() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.homeMode
}

func (m *Manager) setPage(page Page, home bool) {
	m.mu.Lock()
	changed := m.page != page || m.homeMode != home
	m.page = page
	m.homeMode = home
	m.mu.Unlock()
	if changed {
		m.emitPageChanged(page)
	}
}

// GotoOverviewPage shows the overview with the transaction list.
func (m *Manager) GotoOverviewPage() {
	m.setPage(PageOverview, false)
}

// GotoHomePage shows the overview with the toolbox instead of the
// transaction list.
func (m *Manager) GotoHomePage() {
	m.setPage(PageOverview, true)
}

func (m *Manager) GotoHistoryPage() {
	m.setPage(PageHistory, false)
}

func (m *Manager) GotoNodesPage() {
	m.setPage(PageNodes, false)
}

func (m *Manager) GotoStatsPage() {
	m.setPage(PageStats, false)
}

func (m *Manager) GotoFAQPage() {
	m.setPage(PageFAQ, false)
}

func (m *Manager) GotoStakingPage() {
	m.setPage(PageStaking, false)
}

// GotoReceivePage brings up the overview and asks the GUI to open the
// receive dialog.
func (m *Manager) GotoReceivePage() {
	m.setPage(PageOverview, false)
	m.emitShowReceive()
}

// GotoSendPage brings up the overview and asks the GUI to open the send
// dialog, prefilled with addr when non-empty.
func (m *Manager) GotoSendPage(addr string) {
	m.setPage(PageOverview, false)
	m.emitShowSend(PaymentRequest{Address: addr})
}
