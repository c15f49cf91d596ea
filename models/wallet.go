package models

type Wallet struct {
	WalletID uint    `gorm:"primaryKey"`
	UserID   int     `json:"user_id" gorm:"uniqueIndex"`
	Amount   float64 `json:"amount"`
}
