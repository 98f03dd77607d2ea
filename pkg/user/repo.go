package user

import (
	"database/sql"
	"errors"
	"time"
)

type MySQLRepo struct {
	DB *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db}
}

func (r *MySQLRepo) Create(user *User) error {
	user.CreatedAt = time.Now().UTC()
	_, err := r.DB.Exec(
		"INSERT INTO users (id, email, full_name, password, bio, profile_pic, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.FullName, user.Password, user.Bio, user.ProfilePic, user.CreatedAt,
	)
	if err != nil {
		return err
	}
	return nil
}

// FindByEmail returns the full row including the credential hash; it backs
// the login path where the hash is compared.
func (r *MySQLRepo) FindByEmail(email string) (*User, error) {
	var u User
	err := r.DB.QueryRow(
		"SELECT id, email, full_name, password, bio, profile_pic, created_at FROM users WHERE email = ?",
		email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.Password, &u.Bio, &u.ProfilePic, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

// FindByID deliberately omits the password column: it backs the session
// guard, and the resolved identity travels in request contexts and responses.
func (r *MySQLRepo) FindByID(id string) (*User, error) {
	var u User
	err := r.DB.QueryRow(
		"SELECT id, email, full_name, bio, profile_pic, created_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.Bio, &u.ProfilePic, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *MySQLRepo) Update(user *User) error {
	_, err := r.DB.Exec(
		"UPDATE users SET full_name = ?, bio = ?, profile_pic = ? WHERE id = ?",
		user.FullName, user.Bio, user.ProfilePic, user.ID,
	)
	return err
}

// AllExcept lists every user other than id, newest first. Backs the
// contact sidebar.
func (r *MySQLRepo) AllExcept(id string) ([]*User, error) {
	rows, err := r.DB.Query(
		"SELECT id, email, full_name, bio, profile_pic, created_at FROM users WHERE id != ? ORDER BY created_at DESC",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Bio, &u.ProfilePic, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
