package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type UpsertUser struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Summary is the shape returned by user search.
type Summary struct {
	DisplayName string `json:"displayName"`
	ID          string `json:"id"`
}

// Upsert creates the user row on first sign-in and refreshes profile fields
// on later calls. Calling it twice with the same UID is a no-op beyond
// updated_at (idempotent by design).
func (r *Repo) Upsert(ctx context.Context, u UpsertUser) error {
	if u.UID == "" {
		return fmt.Errorf("uid required")
	}
	if u.Email == "" {
		return fmt.Errorf("email required")
	}

	const q = `
insert into users (id, email, display_name, photo_url, updated_at)
values ($1, $2, nullif($3,''), nullif($4,''), now())
on conflict (id) do update
set
  email = excluded.email,
  display_name = coalesce(excluded.display_name, users.display_name),
  photo_url = coalesce(excluded.photo_url, users.photo_url),
  updated_at = now();
`
	_, err := r.db.Exec(ctx, q, u.UID, u.Email, u.DisplayName, u.PhotoURL)
	return err
}

// Update modifies an existing user and reports whether the row existed.
func (r *Repo) Update(ctx context.Context, u UpsertUser) (bool, error) {
	if u.UID == "" {
		return false, fmt.Errorf("uid required")
	}

	const q = `
update users
set
  email = coalesce(nullif($2,''), email),
  display_name = coalesce(nullif($3,''), display_name),
  photo_url = coalesce(nullif($4,''), photo_url),
  updated_at = now()
where id = $1;
`
	ct, err := r.db.Exec(ctx, q, u.UID, u.Email, u.DisplayName, u.PhotoURL)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// SetPhotoURL stores a freshly uploaded profile picture URL.
func (r *Repo) SetPhotoURL(ctx context.Context, uid, photoURL string) (bool, error) {
	const q = `update users set photo_url = $2, updated_at = now() where id = $1;`

	ct, err := r.db.Exec(ctx, q, uid, photoURL)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// SearchByPrefix returns up to limit users whose display name starts with
// term, alphabetically.
func (r *Repo) SearchByPrefix(ctx context.Context, term string, limit int) ([]Summary, error) {
	const q = `
select display_name, id
from users
where display_name ilike $1
order by display_name asc
limit $2;
`
	rows, err := r.db.Query(ctx, q, escapeLike(term)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.DisplayName, &s.ID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ProfilePhotoURLs lists every stored profile picture URL, for the blob
// sweeper.
func (r *Repo) ProfilePhotoURLs(ctx context.Context) ([]string, error) {
	const q = `select photo_url from users where photo_url is not null;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
