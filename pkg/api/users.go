package api

// ProfileResponse - публичный профиль вместе с coins
type ProfileResponse struct {
	Username string   `json:"username"`
	Software []string `json:"software"`
	Coins    int      `json:"coins"`
}

// UserSummary - элемент списка GET /users
type UserSummary struct {
	Username string   `json:"username"`
	Software []string `json:"software"`
}
