package controller

// FAQEntry is one question/answer pair shown on the FAQ page.
type FAQEntry struct {
	Question string
	Answer   string
}

// FAQEntries returns the static content of the FAQ page.
func FAQEntries() []FAQEntry {
	return []FAQEntry{
		{
			Question: "Where is my wallet stored?",
			Answer: "The wallet file lives in the application data directory as wallet.dat. " +
				"It contains your seed phrase, derived account key and transaction history. " +
				"Use Backup Wallet to copy it somewhere safe.",
		},
		{
			Question: "What does encrypting the wallet do?",
			Answer: "Encryption seals your seed phrase with a passphrase. A locked wallet can " +
				"still watch for incoming transactions and show balances, but sending and " +
				"message signing require the passphrase. Backups made before encryption " +
				"still contain the plain seed and should be replaced.",
		},
		{
			Question: "What is a PSBT?",
			Answer: "A partially signed transaction. Load one from the clipboard or a .psbt " +
				"file to review, sign and broadcast transactions prepared elsewhere, for " +
				"example on a watch-only or offline machine.",
		},
		{
			Question: "Why is the wallet rescanning?",
			Answer: "After importing a seed or when the stored scan height falls behind the " +
				"chain tip, the wallet asks the connected Electrum server for the history " +
				"of every derived address. You can cancel the rescan; it resumes from the " +
				"last completed height next time.",
		},
		{
			Question: "How does staking work?",
			Answer: "Once enabled, mature coins (100 confirmations) count towards your " +
				"staking weight. An encrypted wallet must be unlocked for staking; the " +
				"unlock can be restricted to staking only so coins cannot be spent while " +
				"it is active.",
		},
		{
			Question: "Which servers does the wallet talk to?",
			Answer: "The wallet connects to one Electrum server at a time from your " +
				"configured list and rotates to the next on failure. The Nodes page shows " +
				"each server's connection state and last reported tip height.",
		},
	}
}
