package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is one PRACTICE account. UserKey is the opaque identity the client
// connects with: a wallet address or an email.
type User struct {
	ID        int64     `db:"id" json:"id"`
	UserKey   string    `db:"user_key" json:"user_key"`
	Username  string    `db:"username" json:"username"`
	XP        int64     `db:"xp" json:"xp"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Level derives the user's level from accumulated XP.
func (u *User) Level() int {
	return LevelForXP(u.XP)
}

// ValidateUserKey checks the shape of a client-supplied user key. Wallet
// signature verification is out of scope; this only rejects obvious garbage.
func ValidateUserKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("user key is empty")
	}
	if len(key) > 128 {
		return fmt.Errorf("user key too long")
	}
	for _, r := range key {
		if r <= ' ' || r > '~' {
			return fmt.Errorf("user key contains invalid character")
		}
	}
	return nil
}
