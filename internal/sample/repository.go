package sample

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kinyy999/sample-share-backend/internal/apperr"
	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const sampleColumns = `id, title, bpm, key, genre, url, owner_id, artist, tags, length, description, is_public, comments, created_at, updated_at`

// escapeLike экранирует метасимволы шаблона, чтобы ввод пользователя
// в фильтре artist не работал как wildcard
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSample(row rowScanner) (*Sample, error) {
	var s Sample
	var comments []byte
	err := row.Scan(
		&s.ID, &s.Title, &s.BPM, &s.Key, &s.Genre, &s.URL, &s.OwnerID,
		&s.Artist, pq.Array(&s.Tags), &s.Length, &s.Description, &s.IsPublic,
		&comments, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &s.Comments); err != nil {
		return nil, err
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	return &s, nil
}

func (r *Repository) Create(s *Sample) error {
	query := `INSERT INTO samples (title, bpm, key, genre, url, owner_id, artist, tags, length, description, is_public, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '[]')
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(query,
		s.Title, s.BPM, s.Key, s.Genre, s.URL, s.OwnerID,
		s.Artist, pq.Array(s.Tags), s.Length, s.Description, s.IsPublic).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *Repository) GetByID(sampleID int) (*Sample, error) {
	query := "SELECT " + sampleColumns + " FROM samples WHERE id = $1"
	s, err := scanSample(r.db.QueryRow(query, sampleID))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrSampleNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Query выбирает страницу сэмплов по фильтру и считает общее число совпадений
func (r *Repository) Query(f Filter) ([]Sample, int, error) {
	var where []string
	var args []interface{}

	if f.BPM != nil {
		args = append(args, *f.BPM)
		where = append(where, fmt.Sprintf("bpm = $%d", len(args)))
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		where = append(where, fmt.Sprintf("LOWER(genre) = LOWER($%d)", len(args)))
	}
	if f.Key != "" {
		args = append(args, f.Key)
		where = append(where, fmt.Sprintf("LOWER(key) = LOWER($%d)", len(args)))
	}
	if f.Artist != "" {
		args = append(args, "%"+escapeLike(f.Artist)+"%")
		where = append(where, fmt.Sprintf("artist ILIKE $%d", len(args)))
	}
	if f.IsPublic != nil {
		args = append(args, *f.IsPublic)
		where = append(where, fmt.Sprintf("is_public = $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM samples"+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf("SELECT %s FROM samples%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		sampleColumns, whereSQL, len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, 0, err
		}
		samples = append(samples, *s)
	}
	return samples, total, rows.Err()
}

func (r *Repository) Update(sampleID int, req *UpdateSampleRequest) (*Sample, error) {
	var tags interface{}
	if req.Tags != nil {
		tags = pq.Array(*req.Tags)
	}

	query := `UPDATE samples SET
		title = COALESCE($1, title),
		bpm = COALESCE($2, bpm),
		key = COALESCE($3, key),
		genre = COALESCE($4, genre),
		url = COALESCE($5, url),
		artist = COALESCE($6, artist),
		tags = COALESCE($7, tags),
		length = COALESCE($8, length),
		description = COALESCE($9, description),
		is_public = COALESCE($10, is_public),
		updated_at = now()
		WHERE id = $11
		RETURNING ` + sampleColumns
	s, err := scanSample(r.db.QueryRow(query,
		req.Title, req.BPM, req.Key, req.Genre, req.URL,
		req.Artist, tags, req.Length, req.Description, req.IsPublic, sampleID))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrSampleNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) Delete(sampleID int) error {
	res, err := r.db.Exec("DELETE FROM samples WHERE id = $1", sampleID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrSampleNotFound
	}
	return nil
}

// SaveComments перезаписывает весь список комментариев родителя одним UPDATE.
// Оптимистической блокировки нет: одновременные записи работают по схеме
// прочитал-изменил-сохранил, последняя запись побеждает.
func (r *Repository) SaveComments(sampleID int, comments []Comment) error {
	data, err := json.Marshal(comments)
	if err != nil {
		return err
	}
	res, err := r.db.Exec("UPDATE samples SET comments = $1, updated_at = now() WHERE id = $2", data, sampleID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrSampleNotFound
	}
	return nil
}

func (r *Repository) AuthorsByID(userIDs []int) (map[int]CommentAuthor, error) {
	rows, err := r.db.Query("SELECT id, username, email FROM users WHERE id = ANY($1)", pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make(map[int]CommentAuthor)
	for rows.Next() {
		var a CommentAuthor
		if err := rows.Scan(&a.ID, &a.Username, &a.Email); err != nil {
			return nil, err
		}
		authors[a.ID] = a
	}
	return authors, rows.Err()
}

func (r *Repository) SetURL(sampleID int, url string) error {
	res, err := r.db.Exec("UPDATE samples SET url = $1, updated_at = now() WHERE id = $2", url, sampleID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrSampleNotFound
	}
	return nil
}
