package controller

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNavigationEmitsOnChangeOnly(t *testing.T) {
	rig := newTestRig(t)
	var pages []Page
	rig.ctl.OnPageChanged(func(p Page) { pages = append(pages, p) })

	require.Equal(t, PageOverview, rig.ctl.CurrentPage())

	rig.ctl.GotoHistoryPage()
	rig.ctl.GotoHistoryPage()
	rig.ctl.GotoStakingPage()
	rig.ctl.GotoOverviewPage()
	rig.ctl.GotoOverviewPage()

	require.Equal(t, []Page{PageHistory, PageStaking, PageOverview}, pages)
	require.Equal(t, PageOverview, rig.ctl.CurrentPage())
}

func TestNavigationHomeMode(t *testing.T) {
	rig := newTestRig(t)
	var pages []Page
	rig.ctl.OnPageChanged(func(p Page) { pages = append(pages, p) })

	require.False(t, rig.ctl.OverviewHome())

	rig.ctl.GotoHomePage()
	require.True(t, rig.ctl.OverviewHome())
	require.Equal(t, PageOverview, rig.ctl.CurrentPage())

	// same page, different mode still counts as a change
	rig.ctl.GotoOverviewPage()
	require.False(t, rig.ctl.OverviewHome())
	require.Equal(t, []Page{PageOverview, PageOverview}, pages)
}

func TestGotoReceivePage(t *testing.T) {
	rig := newTestRig(t)
	rig.ctl.GotoHistoryPage()

	shows := 0
	rig.ctl.OnShowReceive(func() { shows++ })

	rig.ctl.GotoReceivePage()

	require.Equal(t, PageOverview, rig.ctl.CurrentPage())
	require.Equal(t, 1, shows)
}

func TestGotoSendPage(t *testing.T) {
	rig := newTestRig(t)
	var reqs []PaymentRequest
	rig.ctl.OnShowSend(func(req PaymentRequest) { reqs = append(reqs, req) })

	rig.ctl.GotoSendPage("tal1qexample")

	require.Equal(t, PageOverview, rig.ctl.CurrentPage())
	require.Equal(t, []PaymentRequest{{Address: "tal1qexample"}}, reqs)
}

func TestPageString(t *testing.T) {
	require.Equal(t, "overview", PageOverview.String())
	require.Equal(t, "history", PageHistory.String())
	require.Equal(t, "nodes", PageNodes.String())
	require.Equal(t, "stats", PageStats.String())
	require.Equal(t, "faq", PageFAQ.String())
	require.Equal(t, "staking", PageStaking.String())
	require.Equal(t, "unknown", Page(99).String())
}
