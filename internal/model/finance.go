// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingEntry は夫婦貯金の記帳エントリを表す。
// Amountは入金なら正、引き出しなら負のdecimal値。
type SavingEntry struct {
	ID        string
	UserID    string
	Amount    decimal.Decimal
	Note      string
	EntryDate string // "YYYY-MM-DD"（基準タイムゾーン）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TradeSide はトレードの売買方向を表す。
type TradeSide string

const (
	// TradeSideLong は買い建て。
	TradeSideLong TradeSide = "long"
	// TradeSideShort は売り建て。
	TradeSideShort TradeSide = "short"
)

// ParseTradeSide は文字列をTradeSideに変換する。未知の値は空を返す。
func ParseTradeSide(s string) TradeSide {
	switch TradeSide(s) {
	case TradeSideLong, TradeSideShort:
		return TradeSide(s)
	default:
		return TradeSide("")
	}
}

// TradeEntry はトレード記録を表す。
// GroupIDがnilの場合は個人ジャーナル、非nilの場合はパートナーグループの
// 共有ジャーナルに属する。
type TradeEntry struct {
	ID         string
	UserID     string
	GroupID    *string
	Symbol     string
	Side       TradeSide
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	Quantity   decimal.Decimal
	Fee        decimal.Decimal
	TradeDate  string // "YYYY-MM-DD"（基準タイムゾーン）
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfitLoss は手数料控除後の損益を返す。
// long: (exit - entry) * qty - fee
// short: (entry - exit) * qty - fee
func (t *TradeEntry) ProfitLoss() decimal.Decimal {
	diff := t.ExitPrice.Sub(t.EntryPrice)
	if t.Side == TradeSideShort {
		diff = diff.Neg()
	}
	return diff.Mul(t.Quantity).Sub(t.Fee)
}

// PartnerGroup はトレードジャーナルを共有するグループを表す。
type PartnerGroup struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// GroupMember はパートナーグループへの所属を表す。
type GroupMember struct {
	GroupID  string
	UserID   string
	JoinedAt time.Time
}
