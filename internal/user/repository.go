package user

import (
	"database/sql"

	"github.com/kinyy999/sample-share-backend/internal/apperr"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(user *User) error {
	query := `INSERT INTO users (username, email, password, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(query, user.Username, user.Email, user.Password, user.Role, user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *Repository) GetByEmail(email string) (*User, error) {
	var user User
	query := `SELECT id, username, email, password, role, is_active, created_at, updated_at
		FROM users WHERE email = $1`
	err := r.db.QueryRow(query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByID(userID int) (*User, error) {
	var user User
	query := `SELECT id, username, email, password, role, is_active, created_at, updated_at
		FROM users WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List возвращает всех пользователей без поля password
func (r *Repository) List() ([]User, error) {
	query := `SELECT id, username, email, role, is_active, created_at, updated_at
		FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email,
			&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *Repository) Delete(userID int) error {
	res, err := r.db.Exec("DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (r *Repository) UpdateRole(userID int, role string) error {
	res, err := r.db.Exec("UPDATE users SET role = $1, updated_at = now() WHERE id = $2", role, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (r *Repository) UpdateActive(userID int, isActive bool) error {
	res, err := r.db.Exec("UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2", isActive, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (r *Repository) UpdatePassword(userID int, hash string) error {
	_, err := r.db.Exec("UPDATE users SET password = $1, updated_at = now() WHERE id = $2", hash, userID)
	return err
}
