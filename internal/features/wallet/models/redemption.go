package models

// RedemptionKind is what a user converts ZOINTs into.
type RedemptionKind string

const (
	KindCash    RedemptionKind = "cash"
	KindCharity RedemptionKind = "charity"
	// KindGoods is shown as a wallet option but is permanently disabled;
	// selecting it is inert.
	KindGoods RedemptionKind = "goods"
)

// Normalize maps any non-cash kind onto charity, the only other kind the
// review desk processes.
func (k RedemptionKind) Normalize() RedemptionKind {
	if k == KindCash {
		return KindCash
	}
	return KindCharity
}

// RedemptionStatus is the review state of a submitted request.
type RedemptionStatus string

const (
	StatusPending  RedemptionStatus = "pending"
	StatusApproved RedemptionStatus = "approved"
	StatusRejected RedemptionStatus = "rejected"
)

// MinRedemptionZoints is the smallest amount the review desk accepts.
const MinRedemptionZoints int64 = 500

// CashPerZoint converts a ZOINT amount into its display cash value. The
// review desk owns the authoritative payout rate; this one only feeds the
// wallet's preview.
const CashPerZoint = 0.5

// CashValue returns the display cash value of a ZOINT amount.
func CashValue(zoints int64) float64 {
	return float64(zoints) * CashPerZoint
}

// DateLayout is the date-only format redemption requests are stamped with.
const DateLayout = "2006-01-02"

// RedemptionRequest is a submitted conversion of ZOINTs into cash or a
// charity donation. ID is empty until the repository persists the request
// and assigns one; ownership transfers to the review desk on submission.
type RedemptionRequest struct {
	ID       string           `json:"id"`
	UserID   string           `json:"user_id"`
	UserName string           `json:"user_name"`
	Kind     RedemptionKind   `json:"kind"`
	Amount   int64            `json:"amount"`
	Status   RedemptionStatus `json:"status"`
	Date     string           `json:"date"`
}

// SessionState is the wallet wizard's position.
type SessionState string

const (
	StateMenu       SessionState = "menu"
	StateInput      SessionState = "input"
	StateProcessing SessionState = "processing"
	StateSuccess    SessionState = "success"
	StateFailed     SessionState = "failed"
)

// SessionView is the client-facing snapshot of a wallet session.
type SessionView struct {
	State   SessionState       `json:"state"`
	Kind    RedemptionKind     `json:"kind,omitempty"`
	Amount  string             `json:"amount,omitempty"`
	Error   string             `json:"error,omitempty"`
	Request *RedemptionRequest `json:"request,omitempty"`
}

// SelectKindInput chooses the redemption kind from the menu.
type SelectKindInput struct {
	Kind RedemptionKind `json:"kind" binding:"required"`
}

// AmountInput carries the raw amount field; validation happens on confirm.
type AmountInput struct {
	Amount string `json:"amount"`
}
