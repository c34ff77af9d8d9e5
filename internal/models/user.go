package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время регистрации (UTC)
	Username     string    `json:"username"`   // уникальный неизменяемый username
	PasswordHash string    `json:"-"`          // argon2id хеш в PHC формате
	Software     []string  `json:"software"`   // набор тегов, порядок не значим
}

// Profile - публичное представление пользователя вместе с производным счетчиком coins
type Profile struct {
	Username string   `json:"username"`
	Software []string `json:"software"`
	Coins    int      `json:"coins"` // сколько лайков получили все посты пользователя
}
