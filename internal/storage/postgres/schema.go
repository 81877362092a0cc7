package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
)

// statements are ordered so foreign keys always reference tables created
// earlier in the list.
var statements = []struct {
	name string
	sql  string
}{
	{"users", `
create table if not exists users (
    id           text primary key,
    email        text not null unique,
    display_name text,
    photo_url    text,
    post_count   integer not null default 0,
    created_at   timestamptz not null default now(),
    updated_at   timestamptz not null default now()
);`},
	{"posts", `
create table if not exists posts (
    id              uuid primary key,
    user_id         text not null references users(id) on delete cascade,
    type            text not null check (type in ('post', 'event')),
    title           text not null,
    description     text,
    latitude        double precision not null,
    longitude       double precision not null,
    latitude_delta  double precision not null,
    longitude_delta double precision not null,
    private         boolean not null default false,
    created_at      timestamptz not null default now(),
    updated_at      timestamptz not null default now()
);`},
	{"events", `
create table if not exists events (
    post_id     uuid primary key references posts(id) on delete cascade,
    event_start timestamptz,
    event_end   timestamptz
);`},
	{"images", `
create table if not exists images (
    id        uuid primary key,
    post_id   uuid not null references posts(id) on delete cascade,
    image_url text not null
);`},
	{"tags", `
create table if not exists tags (
    id   text primary key,
    name text not null unique
);`},
	{"post_tags", `
create table if not exists post_tags (
    post_id uuid not null references posts(id) on delete cascade,
    tag_id  text not null references tags(id) on delete cascade,
    primary key (post_id, tag_id)
);`},
	{"friendships", `
create table if not exists friendships (
    follower_id text not null references users(id) on delete cascade,
    followee_id text not null references users(id) on delete cascade,
    created_at  timestamptz not null default now(),
    primary key (follower_id, followee_id)
);`},
	{"idx_posts_user", `create index if not exists idx_posts_user on posts (user_id);`},
	{"idx_posts_created", `create index if not exists idx_posts_created on posts (created_at desc, id desc);`},
	{"idx_images_post", `create index if not exists idx_images_post on images (post_id);`},
	{"idx_post_tags_tag", `create index if not exists idx_post_tags_tag on post_tags (tag_id);`},
	{"idx_users_display_name", `create index if not exists idx_users_display_name on users (display_name text_pattern_ops);`},
	{"idx_tags_name", `create index if not exists idx_tags_name on tags (name text_pattern_ops);`},
}

// EnsureSchema creates every table and index that is missing. Statements run
// independently: a failure is logged and the remaining statements still
// execute, and the combined error is returned at the end.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	var errs []error

	for _, st := range statements {
		if _, err := db.ExecContext(ctx, st.sql); err != nil {
			log.Printf("schema: %s failed: %v", st.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
			continue
		}
		log.Printf("schema: %s ok", st.name)
	}

	return errors.Join(errs...)
}
