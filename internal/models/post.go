package models

import "time"

// Post представляет публикацию пользователя
type Post struct {
	CreatedAt time.Time `json:"created_at"` // момент приема сервером (UTC)
	Author    string    `json:"author"`     // username автора
	Content   []byte    `json:"content"`    // бинарное содержимое
	ID        int64     `json:"id"`         // монотонно возрастающий идентификатор
	Likes     int       `json:"likes"`      // вычисляется при чтении, не хранится
}

// LikeState - состояние лайков поста с точки зрения конкретного пользователя
type LikeState struct {
	Count int  `json:"likes"` // количество пользователей, лайкнувших пост
	Liked bool `json:"liked"` // лайкнул ли пост текущий пользователь
}

// PostOrder задает порядок выдачи ленты
type PostOrder string

const (
	// OrderOldest - порядок вставки, старые посты первыми
	OrderOldest PostOrder = "oldest"
	// OrderNewest - новые посты первыми
	OrderNewest PostOrder = "newest"
)
