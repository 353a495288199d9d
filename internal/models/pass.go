package models

import "time"

// Pass is the single-use QR credential minted when a request is approved.
// It transitions from unused to used exactly once and never back.
type Pass struct {
	ID        int64      `json:"id"`
	Token     string     `json:"token"`
	RequestID string     `json:"requestId"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsUsed reports whether the pass has already been redeemed
func (p *Pass) IsUsed() bool {
	return p.Used
}
