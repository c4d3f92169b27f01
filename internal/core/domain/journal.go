package domain

import "time"

// Ledger account labels used by the engine's own postings.
const (
	AccountCash               = "Cash"
	AccountCard               = "Card Clearing"
	AccountBank               = "Bank"
	AccountWave               = "Wave"
	AccountMobileMoney        = "Mobile Money"
	AccountUnallocated        = "Unallocated Receipts"
	AccountSalesRevenue       = "Sales Revenue"
	AccountLoyaltyRedemptions = "Loyalty Points Redeemed"
	AccountReceivable         = "Accounts Receivable"
	AccountCashVariance       = "Ecart de Caisse"
)

// JournalEntry is one debit or credit posting belonging to a transaction.
// Entries are immutable once posted.
type JournalEntry struct {
	EntryID       string    `json:"entryID"`
	TransactionID string    `json:"transactionID"`
	Sequence      int       `json:"sequence"` // posting order within the transaction
	AccountType   string    `json:"accountType"`
	Amount        Money     `json:"amount"` // always positive
	IsDebit       bool      `json:"isDebit"`
	Description   string    `json:"description"`
	EntryDate     time.Time `json:"date"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SumEntries returns the debit and credit totals of entries. A side whose total does not
// fit in Money fails with ErrMoneyOverflow.
func SumEntries(entries []JournalEntry) (debits Money, credits Money, err error) {
	for _, e := range entries {
		if e.IsDebit {
			debits, err = debits.Add(e.Amount)
		} else {
			credits, err = credits.Add(e.Amount)
		}
		if err != nil {
			return 0, 0, err
		}
	}
	return debits, credits, nil
}
