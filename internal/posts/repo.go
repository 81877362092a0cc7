package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	TypePost  = "post"
	TypeEvent = "event"
)

var ErrNotFound = errors.New("post not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Post struct {
	ID             uuid.UUID  `json:"id"`
	UserID         string     `json:"userId"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	LatitudeDelta  float64    `json:"latitudeDelta"`
	LongitudeDelta float64    `json:"longitudeDelta"`
	Private        bool       `json:"private"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	EventStart     *time.Time `json:"eventStart,omitempty"`
	EventEnd       *time.Time `json:"eventEnd,omitempty"`
	Images         []string   `json:"images"`
	Tags           []string   `json:"tags"`
}

type CreateInput struct {
	UserID         string
	Type           string
	Title          string
	Description    string
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
	Private        bool
	EventStart     *time.Time
	EventEnd       *time.Time
	Tags           []string
}

type UpdateInput struct {
	PostID         uuid.UUID
	UserID         string
	Title          string
	Description    string
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
	Private        bool
	EventStart     *time.Time
	EventEnd       *time.Time
	Tags           []string
}

// Create inserts the post, its event row and its tags as one transaction.
// Either every row lands or none do; a failure on any statement rolls the
// whole post back.
func (r *Repo) Create(ctx context.Context, in CreateInput) (uuid.UUID, error) {
	postID := uuid.New()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertPost = `
insert into posts (id, user_id, type, title, description,
                   latitude, longitude, latitude_delta, longitude_delta, private)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err = tx.Exec(ctx, insertPost,
		postID, in.UserID, in.Type, in.Title, in.Description,
		in.Latitude, in.Longitude, in.LatitudeDelta, in.LongitudeDelta, in.Private)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert post: %w", err)
	}

	if in.Type == TypeEvent {
		const insertEvent = `insert into events (post_id, event_start, event_end) values ($1, $2, $3);`
		if _, err := tx.Exec(ctx, insertEvent, postID, in.EventStart, in.EventEnd); err != nil {
			return uuid.Nil, fmt.Errorf("insert event: %w", err)
		}
	}

	if err := attachTags(ctx, tx, postID, in.Tags); err != nil {
		return uuid.Nil, err
	}

	const bumpCount = `update users set post_count = post_count + 1, updated_at = now() where id = $1;`
	if _, err := tx.Exec(ctx, bumpCount, in.UserID); err != nil {
		return uuid.Nil, fmt.Errorf("bump post count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return postID, nil
}

// Update rewrites a post's fields and replaces its tag set, transactionally.
// Only the author's own post can be updated.
func (r *Repo) Update(ctx context.Context, in UpdateInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const updatePost = `
update posts
set title = $3, description = $4,
    latitude = $5, longitude = $6, latitude_delta = $7, longitude_delta = $8,
    private = $9, updated_at = now()
where id = $1 and user_id = $2
returning type;
`
	var postType string
	err = tx.QueryRow(ctx, updatePost,
		in.PostID, in.UserID, in.Title, in.Description,
		in.Latitude, in.Longitude, in.LatitudeDelta, in.LongitudeDelta, in.Private).
		Scan(&postType)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if postType == TypeEvent {
		const upsertEvent = `
insert into events (post_id, event_start, event_end)
values ($1, $2, $3)
on conflict (post_id) do update
set event_start = excluded.event_start, event_end = excluded.event_end;
`
		if _, err := tx.Exec(ctx, upsertEvent, in.PostID, in.EventStart, in.EventEnd); err != nil {
			return fmt.Errorf("upsert event: %w", err)
		}
	}

	const clearTags = `delete from post_tags where post_id = $1;`
	if _, err := tx.Exec(ctx, clearTags, in.PostID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if err := attachTags(ctx, tx, in.PostID, in.Tags); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a post; events, images and tag joins go with it via the
// cascade rules. It returns the deleted post's image URLs so the caller can
// clean up the blob store after commit.
func (r *Repo) Delete(ctx context.Context, postID uuid.UUID) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const selectImages = `select image_url from images where post_id = $1;`
	rows, err := tx.Query(ctx, selectImages, postID)
	if err != nil {
		return nil, fmt.Errorf("select images: %w", err)
	}
	var imageURLs []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			rows.Close()
			return nil, err
		}
		imageURLs = append(imageURLs, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const deletePost = `delete from posts where id = $1 returning user_id;`
	var userID string
	err = tx.QueryRow(ctx, deletePost, postID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}

	const dropCount = `update users set post_count = greatest(post_count - 1, 0), updated_at = now() where id = $1;`
	if _, err := tx.Exec(ctx, dropCount, userID); err != nil {
		return nil, fmt.Errorf("drop post count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return imageURLs, nil
}

// AddImage records an uploaded image against a post.
func (r *Repo) AddImage(ctx context.Context, postID uuid.UUID, imageURL string) error {
	const q = `insert into images (id, post_id, image_url) values ($1, $2, $3);`
	_, err := r.db.Exec(ctx, q, uuid.New(), postID, imageURL)
	return err
}

// ImageURLs lists every stored post image URL, for the blob sweeper.
func (r *Repo) ImageURLs(ctx context.Context) ([]string, error) {
	const q = `select image_url from images;`

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

const postColumns = `
p.id, p.user_id, p.type, p.title, coalesce(p.description, ''),
p.latitude, p.longitude, p.latitude_delta, p.longitude_delta,
p.private, p.created_at, p.updated_at,
e.event_start, e.event_end,
coalesce((select array_agg(i.image_url) from images i where i.post_id = p.id), '{}'),
coalesce((select array_agg(t.name order by t.name)
          from post_tags pt join tags t on t.id = pt.tag_id
          where pt.post_id = p.id), '{}')
`

// ByUser returns a user's own posts, newest first, private included.
func (r *Repo) ByUser(ctx context.Context, userID string) ([]Post, error) {
	q := `
select ` + postColumns + `
from posts p
left join events e on e.post_id = p.id
where p.user_id = $1
order by p.created_at desc, p.id desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// Explore pages through the public feed, newest first with a stable id
// tiebreak. The viewer also sees their own private posts.
func (r *Repo) Explore(ctx context.Context, viewerID string, offset, limit int) ([]Post, error) {
	q := `
select ` + postColumns + `
from posts p
left join events e on e.post_id = p.id
where p.private = false or p.user_id = $1
order by p.created_at desc, p.id desc
offset $2 limit $3;
`
	rows, err := r.db.Query(ctx, q, viewerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) ([]Post, error) {
	out := make([]Post, 0, 16)
	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Type, &p.Title, &p.Description,
			&p.Latitude, &p.Longitude, &p.LatitudeDelta, &p.LongitudeDelta,
			&p.Private, &p.CreatedAt, &p.UpdatedAt,
			&p.EventStart, &p.EventEnd,
			&p.Images, &p.Tags,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// attachTags upserts each tag by its content-addressed id and links it to
// the post. Duplicate tag text maps to the same id, so concurrent writers
// converge on one tag row.
func attachTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, tags []string) error {
	const insertTag = `insert into tags (id, name) values ($1, $2) on conflict do nothing;`
	const insertJoin = `insert into post_tags (post_id, tag_id) values ($1, $2) on conflict do nothing;`

	for _, raw := range tags {
		name := NormalizeTag(raw)
		if name == "" {
			continue
		}
		tagID := TagID(name)

		if _, err := tx.Exec(ctx, insertTag, tagID, name); err != nil {
			return fmt.Errorf("insert tag %q: %w", name, err)
		}
		if _, err := tx.Exec(ctx, insertJoin, postID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}
