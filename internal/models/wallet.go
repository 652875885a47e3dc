package models

// Currency identifies a supported donation currency
type Currency string

const (
	BTC Currency = "btc"
	XMR Currency = "xmr"
)

// Wallet holds a user's donation addresses. Empty string means unset.
type Wallet struct {
	UserID int64  `json:"user_id"`
	BTC    string `json:"btc"`
	XMR    string `json:"xmr"`
}

// Address returns the stored address for the given currency
func (w Wallet) Address(c Currency) string {
	switch c {
	case BTC:
		return w.BTC
	case XMR:
		return w.XMR
	}
	return ""
}
