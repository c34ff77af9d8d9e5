package api

import "time"

// PostCreatedResponse - ответ на POST /post
type PostCreatedResponse struct {
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	ID        int64     `json:"id"`
	Likes     int       `json:"likes"`
}

// FeedPost - элемент ленты GET /posts.
// Content кодируется в JSON как base64 строка
type FeedPost struct {
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Content   []byte    `json:"content"`
	ID        int64     `json:"id"`
	Likes     int       `json:"likes"`
}

// LikeStateResponse - состояние лайков поста для текущего пользователя
type LikeStateResponse struct {
	PostID int64 `json:"post_id"`
	Likes  int   `json:"likes"`
	Liked  bool  `json:"liked"`
}
