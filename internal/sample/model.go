package sample

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Один экземпляр на пакет: validator кеширует разбор структур
var validate = validator.New()

type Sample struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	BPM         int       `json:"bpm"`
	Key         string    `json:"key"`
	Genre       string    `json:"genre"`
	URL         string    `json:"url"`
	OwnerID     int       `json:"owner"`
	Artist      string    `json:"artist"`
	Tags        []string  `json:"tags"`
	Length      float64   `json:"length"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment живет внутри JSONB-колонки родительского Sample и сохраняется
// только вместе с ним. Author заполняется при отдаче клиенту и не хранится.
type Comment struct {
	ID        string         `json:"id"`
	UserID    int            `json:"user"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
	Author    *CommentAuthor `json:"author,omitempty"`
}

type CommentAuthor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CreateSampleRequest struct {
	Title       string   `json:"title" validate:"required"`
	BPM         int      `json:"bpm" validate:"required,gt=0"`
	Key         string   `json:"key" validate:"required"`
	Genre       string   `json:"genre" validate:"required"`
	URL         string   `json:"url" validate:"required"`
	Artist      string   `json:"artist"`
	Tags        []string `json:"tags"`
	Length      float64  `json:"length"`
	Description string   `json:"description"`
	IsPublic    *bool    `json:"isPublic"`
}

func (r *CreateSampleRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateSampleRequest: nil-поля не меняются; owner и comments через этот
// запрос изменить нельзя, лишние поля тела просто игнорируются
type UpdateSampleRequest struct {
	Title       *string   `json:"title"`
	BPM         *int      `json:"bpm"`
	Key         *string   `json:"key"`
	Genre       *string   `json:"genre"`
	URL         *string   `json:"url"`
	Artist      *string   `json:"artist"`
	Tags        *[]string `json:"tags"`
	Length      *float64  `json:"length"`
	Description *string   `json:"description"`
	IsPublic    *bool     `json:"isPublic"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (r *CommentRequest) Validate() error {
	return validate.Struct(r)
}

type Filter struct {
	BPM      *int
	Genre    string
	Key      string
	Artist   string
	IsPublic *bool
	Page     int
	Limit    int
}

type ListResponse struct {
	Samples []Sample `json:"samples"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Limit   int      `json:"limit"`
}
