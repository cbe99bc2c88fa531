package controller

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/wallet"
)

func validMainnetAddress(t *testing.T) string {
	t.Helper()
	var h [20]byte
	h[0] = 0x42
	addr, err := btcutil.NewAddressWitnessPubKeyHash(h[:], &chainparams.MainNetParams)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func TestSetWalletBackendEmitsInitialStatus(t *testing.T) {
	rig := newTestRig(t)
	var statuses []wallet.EncryptionStatus
	rig.ctl.OnEncryptionStatusChanged(func(s wallet.EncryptionStatus) {
		statuses = append(statuses, s)
	})

	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)

	require.Equal(t, []wallet.EncryptionStatus{wallet.StatusLocked}, statuses)

	require.NotNil(t, w.statusCb)
	w.statusCb(wallet.StatusUnlocked)
	require.Equal(t, []wallet.EncryptionStatus{wallet.StatusLocked, wallet.StatusUnlocked}, statuses)
}

func TestWalletMessagesForwardedWithSeverity(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)
	require.NotNil(t, w.messageCb)

	w.messageCb("Staking Active", "The wallet started staking.", false)
	w.messageCb("Broadcast Failed", "The transaction was rejected.", true)

	require.Len(t, rig.messages, 2)
	require.Equal(t, SeverityInformation, rig.messages[0].Severity)
	require.Equal(t, "Staking Active", rig.messages[0].Title)
	require.Equal(t, SeverityError, rig.messages[1].Severity)
	require.Equal(t, "The transaction was rejected.", rig.messages[1].Body)
}

func TestIncomingTransactionForwarded(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	n := &fakeNode{}
	rig.ctl.SetWalletBackend(w)
	rig.ctl.SetNodeBackend(n)

	var incoming []IncomingTx
	rig.ctl.OnIncomingTransaction(func(tx IncomingTx) { incoming = append(incoming, tx) })

	date := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NotNil(t, w.insertCb)
	w.insertCb(wallet.TxRecord{
		TxID:    "deadbeef",
		Date:    date,
		Amount:  250_000,
		Type:    wallet.TxTypeReceive,
		Address: "tal1qexample",
		Label:   "donations",
	})

	require.Len(t, incoming, 1)
	tx := incoming[0]
	require.Equal(t, date, tx.Date)
	require.Equal(t, chainparams.CoinUnit, tx.Unit)
	require.Equal(t, int64(250_000), tx.Amount)
	require.Equal(t, wallet.TxTypeReceive, tx.Type)
	require.Equal(t, "tal1qexample", tx.Address)
	require.Equal(t, "donations", tx.Label)
	require.Equal(t, "test-wallet", tx.Wallet)
}

func TestIncomingTransactionSuppressedDuringIBD(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	n := &fakeNode{ibd: true}
	rig.ctl.SetWalletBackend(w)
	rig.ctl.SetNodeBackend(n)

	var incoming []IncomingTx
	rig.ctl.OnIncomingTransaction(func(tx IncomingTx) { incoming = append(incoming, tx) })

	w.insertCb(wallet.TxRecord{TxID: "deadbeef", Type: wallet.TxTypeReceive})
	require.Empty(t, incoming)

	// once the node has caught up the next record goes through
	n.ibd = false
	w.insertCb(wallet.TxRecord{TxID: "cafebabe", Type: wallet.TxTypeReceive})
	require.Len(t, incoming, 1)
}

func TestIncomingTransactionSuppressedWhileQueued(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.queued = true
	rig.ctl.SetWalletBackend(w)
	rig.ctl.SetNodeBackend(&fakeNode{})

	var incoming []IncomingTx
	rig.ctl.OnIncomingTransaction(func(tx IncomingTx) { incoming = append(incoming, tx) })

	w.insertCb(wallet.TxRecord{TxID: "deadbeef", Type: wallet.TxTypeReceive})
	require.Empty(t, incoming)
}

func TestIncomingTransactionRequiresNode(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)

	var incoming []IncomingTx
	rig.ctl.OnIncomingTransaction(func(tx IncomingTx) { incoming = append(incoming, tx) })

	w.insertCb(wallet.TxRecord{TxID: "deadbeef", Type: wallet.TxTypeReceive})
	require.Empty(t, incoming)
}

func TestHandlePaymentRequest(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)
	rig.ctl.GotoHistoryPage()

	var reqs []PaymentRequest
	rig.ctl.OnShowSend(func(req PaymentRequest) { reqs = append(reqs, req) })

	addr := validMainnetAddress(t)
	accepted := rig.ctl.HandlePaymentRequest(PaymentRequest{
		Address: addr,
		Amount:  5_000,
		Label:   "invoice 7",
	})

	require.True(t, accepted)
	require.Equal(t, PageOverview, rig.ctl.CurrentPage())
	require.Len(t, reqs, 1)
	require.Equal(t, addr, reqs[0].Address)
	require.Equal(t, int64(5_000), reqs[0].Amount)
	require.Empty(t, rig.messages)
}

func TestHandlePaymentRequestInvalidAddress(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)

	var reqs []PaymentRequest
	rig.ctl.OnShowSend(func(req PaymentRequest) { reqs = append(reqs, req) })

	accepted := rig.ctl.HandlePaymentRequest(PaymentRequest{Address: "bogus"})

	require.False(t, accepted)
	require.Empty(t, reqs)
	require.Len(t, rig.messages, 1)
	msg := rig.messages[0]
	require.Equal(t, "Invalid Payment Request", msg.Title)
	require.Equal(t, "The payment request contains an invalid address: bogus", msg.Body)
	require.Equal(t, SeverityError, msg.Severity)
}

func TestHandlePaymentRequestWrongNetwork(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.network = chainparams.NetworkTestnet
	rig.ctl.SetWalletBackend(w)

	accepted := rig.ctl.HandlePaymentRequest(PaymentRequest{Address: validMainnetAddress(t)})

	require.False(t, accepted)
	require.Len(t, rig.messages, 1)
	require.Equal(t, "Invalid Payment Request", rig.messages[0].Title)
}

func TestHandlePaymentRequestWithoutWallet(t *testing.T) {
	rig := newTestRig(t)

	require.False(t, rig.ctl.HandlePaymentRequest(PaymentRequest{Address: "tal1qexample"}))
	require.Empty(t, rig.messages)
}

func TestUnlockRequestRunsUnlockFlow(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "hunter2hunter2"
	rig.passphrase.ok = true

	requests := 0
	rig.ctl.OnUnlockRequested(func() { requests++ })

	require.NotNil(t, w.unlockCb)
	w.unlockCb()

	require.Equal(t, 1, requests)
	require.Equal(t, []string{"hunter2hunter2"}, w.unlockCalls)
	require.Equal(t, []bool{false}, w.unlockStaking)
}

func TestSignMessageDelegates(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.signature = "c2lnbmF0dXJl"
	rig.ctl.SetWalletBackend(w)

	sig, err := rig.ctl.SignMessage("tal1qexample", "hello")
	require.NoError(t, err)
	require.Equal(t, "c2lnbmF0dXJl", sig)

	ok, err := rig.ctl.VerifyMessage("tal1qexample", "hello", sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSignMessageWithoutWallet(t *testing.T) {
	rig := newTestRig(t)

	_, err := rig.ctl.SignMessage("tal1qexample", "hello")
	require.ErrorIs(t, err, ErrNoWallet)

	_, err = rig.ctl.VerifyMessage("tal1qexample", "hello", "sig")
	require.ErrorIs(t, err, ErrNoWallet)
}

func TestNodeSyncStateForwarded(t *testing.T) {
	rig := newTestRig(t)
	n := &fakeNode{}
	rig.ctl.SetNodeBackend(n)

	var warnings []bool
	rig.ctl.OnOutOfSyncWarning(func(show bool) { warnings = append(warnings, show) })

	require.NotNil(t, n.syncCb)
	n.syncCb(true)
	n.syncCb(false)

	require.Equal(t, []bool{true, false}, warnings)
}
