package friends

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Friend is one followee edge joined against the users table.
type Friend struct {
	FolloweeID   string `json:"followeeId"`
	FolloweeName string `json:"followeeName"`
}

// Add inserts the directed edge follower→followee. Re-adding an existing
// edge is a no-op.
func (r *Repo) Add(ctx context.Context, followerID, followeeID string) error {
	const q = `
insert into friendships (follower_id, followee_id)
values ($1, $2)
on conflict do nothing;
`
	_, err := r.db.Exec(ctx, q, followerID, followeeID)
	return err
}

// Is reports whether follower follows followee. The edge is directed:
// Is(a, b) says nothing about Is(b, a).
func (r *Repo) Is(ctx context.Context, followerID, followeeID string) (bool, error) {
	const q = `select exists (select 1 from friendships where follower_id = $1 and followee_id = $2);`

	var exists bool
	if err := r.db.QueryRow(ctx, q, followerID, followeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns the users the follower follows, by display name.
func (r *Repo) List(ctx context.Context, followerID string) ([]Friend, error) {
	const q = `
select f.followee_id, coalesce(u.display_name, '')
from friendships f
join users u on u.id = f.followee_id
where f.follower_id = $1
order by u.display_name asc;
`
	rows, err := r.db.Query(ctx, q, followerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Friend, 0, 16)
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.FolloweeID, &f.FolloweeName); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Delete removes the directed edge unconditionally; deleting an absent edge
// is not an error.
func (r *Repo) Delete(ctx context.Context, followerID, followeeID string) error {
	const q = `delete from friendships where follower_id = $1 and followee_id = $2;`
	_, err := r.db.Exec(ctx, q, followerID, followeeID)
	return err
}
