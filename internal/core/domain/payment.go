package domain

import "sort"

// PaymentMethod is a tender method accepted at a register.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBank         PaymentMethod = "bank"
	PaymentWave         PaymentMethod = "wave"
	PaymentMobile       PaymentMethod = "mobile"
	PaymentNotSpecified PaymentMethod = "not_specified"
)

// PaymentMethods lists every method in a stable order.
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCard,
	PaymentBank,
	PaymentWave,
	PaymentMobile,
	PaymentNotSpecified,
}

// IsValid reports whether m is one of the known payment methods.
func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// LedgerAccount is the journal account label a tender of this method is posted to.
func (m PaymentMethod) LedgerAccount() string {
	switch m {
	case PaymentCash:
		return AccountCash
	case PaymentCard:
		return AccountCard
	case PaymentBank:
		return AccountBank
	case PaymentWave:
		return AccountWave
	case PaymentMobile:
		return AccountMobileMoney
	default:
		return AccountUnallocated
	}
}

// Balances maps each payment method to an amount in minor units.
type Balances map[PaymentMethod]Money

// Copy returns an independent copy. A nil receiver yields an empty map.
func (b Balances) Copy() Balances {
	out := make(Balances, len(b))
	for m, v := range b {
		out[m] = v
	}
	return out
}

// Total sums all methods, failing with ErrMoneyOverflow when the sum does not fit.
func (b Balances) Total() (Money, error) {
	var total Money
	for _, v := range b {
		var err error
		if total, err = total.Add(v); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Methods returns the methods present in b, in PaymentMethods order.
func (b Balances) Methods() []PaymentMethod {
	out := make([]PaymentMethod, 0, len(b))
	for m := range b {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return methodIndex(out[i]) < methodIndex(out[j])
	})
	return out
}

func methodIndex(m PaymentMethod) int {
	for i, known := range PaymentMethods {
		if m == known {
			return i
		}
	}
	return len(PaymentMethods)
}

// SettlementRequest is the input to the payment reconciler.
type SettlementRequest struct {
	AmountDue           Money
	Tendered            Balances
	UseStoreCredit      bool
	ClientHasCredit     bool
	UsePoints           bool
	ClientPointsBalance int64
	PointValue          Money // minor units per loyalty point
}

// TotalTendered sums the tendered amounts.
func (r SettlementRequest) TotalTendered() (Money, error) {
	return r.Tendered.Total()
}

// SettlementOutcome is the result of reconciling a checkout request.
type SettlementOutcome struct {
	Methods         Balances `json:"methods"`
	TotalPaid       Money    `json:"totalPaid"`
	Change          Money    `json:"change"`
	UsedStoreCredit bool     `json:"usedStoreCredit"`
	UsedPoints      bool     `json:"usedPoints"`
	PointsConsumed  int64    `json:"pointsConsumed"`
	// PointsValue is the part of the amount due settled by points.
	PointsValue Money `json:"pointsValue"`
	// StoreCreditCharged is the amount charged to the client's account.
	StoreCreditCharged Money `json:"storeCreditCharged"`
}

// NetTenders returns the amounts that actually stay in the register per method:
// change is handed back from the cash drawer.
func (o SettlementOutcome) NetTenders() Balances {
	net := o.Methods.Copy()
	if o.Change > 0 {
		net[PaymentCash] -= o.Change
	}
	for m, v := range net {
		if v == 0 {
			delete(net, m)
		}
	}
	return net
}

// DominantMethod returns the method carrying the largest tendered amount, or
// not_specified when nothing was tendered.
func (o SettlementOutcome) DominantMethod() PaymentMethod {
	best := PaymentNotSpecified
	var bestAmount Money
	for _, m := range o.Methods.Methods() {
		if v := o.Methods[m]; v > bestAmount {
			best, bestAmount = m, v
		}
	}
	return best
}
