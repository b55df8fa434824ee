package dto

type CreatePostRequest struct {
	Content  string   `json:"content" form:"content"`
	Mentions []string `json:"mentions" form:"mentions"`
	Shares   []string `json:"shares" form:"shares"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}
