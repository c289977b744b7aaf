package sample

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kinyy999/sample-share-backend/internal/apperr"
)

type Store interface {
	Create(s *Sample) error
	GetByID(sampleID int) (*Sample, error)
	Query(f Filter) ([]Sample, int, error)
	Update(sampleID int, req *UpdateSampleRequest) (*Sample, error)
	Delete(sampleID int) error
	SaveComments(sampleID int, comments []Comment) error
	AuthorsByID(userIDs []int) (map[int]CommentAuthor, error)
	SetURL(sampleID int, url string) error
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSample(req *CreateSampleRequest, ownerID int) (*Sample, error) {
	artist := req.Artist
	if artist == "" {
		artist = "Unknown"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	smp := &Sample{
		Title:       req.Title,
		BPM:         req.BPM,
		Key:         req.Key,
		Genre:       req.Genre,
		URL:         req.URL,
		OwnerID:     ownerID,
		Artist:      artist,
		Tags:        tags,
		Length:      req.Length,
		Description: req.Description,
		IsPublic:    isPublic,
		Comments:    []Comment{},
	}
	if err := s.repo.Create(smp); err != nil {
		return nil, err
	}
	return smp, nil
}

func (s *Service) GetSample(sampleID int) (*Sample, error) {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}
	if err := s.populateAuthors(smp); err != nil {
		return nil, err
	}
	return smp, nil
}

func (s *Service) ListSamples(f Filter) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	samples, total, err := s.repo.Query(f)
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []Sample{}
	}

	pages := (total + f.Limit - 1) / f.Limit

	return &ListResponse{
		Samples: samples,
		Total:   total,
		Page:    f.Page,
		Pages:   pages,
		Limit:   f.Limit,
	}, nil
}

func (s *Service) UpdateSample(sampleID, requesterID int, role string, req *UpdateSampleRequest) (*Sample, error) {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}
	if smp.OwnerID != requesterID && role != "admin" {
		return nil, apperr.ErrForbidden
	}
	return s.repo.Update(sampleID, req)
}

func (s *Service) DeleteSample(sampleID, requesterID int, role string) error {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return err
	}
	if smp.OwnerID != requesterID && role != "admin" {
		return apperr.ErrForbidden
	}
	return s.repo.Delete(sampleID)
}

// AddComment дописывает комментарий в список родителя по схеме
// прочитал-изменил-сохранил и возвращает сэмпл с заполненными авторами
func (s *Service) AddComment(sampleID, userID int, text string) (*Sample, error) {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}

	comment := Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	smp.Comments = append(smp.Comments, comment)

	if err := s.repo.SaveComments(sampleID, smp.Comments); err != nil {
		return nil, err
	}
	if err := s.populateAuthors(smp); err != nil {
		return nil, err
	}
	return smp, nil
}

// UpdateComment меняет текст комментария; разрешено только автору,
// у админа права на редактирование чужих комментариев нет
func (s *Service) UpdateComment(sampleID int, commentID string, requesterID int, text string) (*Sample, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.ErrEmptyComment
	}

	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}

	idx := findComment(smp.Comments, commentID)
	if idx < 0 {
		return nil, apperr.ErrCommentNotFound
	}
	if smp.Comments[idx].UserID != requesterID {
		return nil, apperr.ErrForbidden
	}

	smp.Comments[idx].Text = text
	if err := s.repo.SaveComments(sampleID, smp.Comments); err != nil {
		return nil, err
	}
	if err := s.populateAuthors(smp); err != nil {
		return nil, err
	}
	return smp, nil
}

// DeleteComment удаляет комментарий; разрешено автору или админу
func (s *Service) DeleteComment(sampleID int, commentID string, requesterID int, role string) error {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return err
	}

	idx := findComment(smp.Comments, commentID)
	if idx < 0 {
		return apperr.ErrCommentNotFound
	}
	if smp.Comments[idx].UserID != requesterID && role != "admin" {
		return apperr.ErrForbidden
	}

	smp.Comments = append(smp.Comments[:idx], smp.Comments[idx+1:]...)
	return s.repo.SaveComments(sampleID, smp.Comments)
}

func (s *Service) CheckOwnership(sampleID, requesterID int, role string) error {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return err
	}
	if smp.OwnerID != requesterID && role != "admin" {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *Service) SetAudioURL(sampleID int, objectName string) error {
	return s.repo.SetURL(sampleID, objectName)
}

// GetAudioObject возвращает имя объекта в хранилище, если аудио загружено
func (s *Service) GetAudioObject(sampleID int) (string, error) {
	smp, err := s.repo.GetByID(sampleID)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(smp.URL, "samples/") {
		return "", apperr.ErrAudioNotFound
	}
	return smp.URL, nil
}

func findComment(comments []Comment, commentID string) int {
	for i := range comments {
		if comments[i].ID == commentID {
			return i
		}
	}
	return -1
}

func (s *Service) populateAuthors(smp *Sample) error {
	if len(smp.Comments) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var ids []int
	for _, c := range smp.Comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}

	authors, err := s.repo.AuthorsByID(ids)
	if err != nil {
		return err
	}
	for i := range smp.Comments {
		if a, ok := authors[smp.Comments[i].UserID]; ok {
			author := a
			smp.Comments[i].Author = &author
		}
	}
	return nil
}
