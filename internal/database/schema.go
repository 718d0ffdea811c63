package database

import "fmt"

// Schema returns the DDL for every table. Statements are idempotent.
func Schema(t *TableNames) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    cafe_id    TEXT NOT NULL,
    cafe_name  TEXT NOT NULL DEFAULT '',
    user_id    TEXT NOT NULL,
    user_name  TEXT NOT NULL DEFAULT '',
    rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    review     TEXT NOT NULL CHECK (char_length(review) <= 500),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ,
    UNIQUE (cafe_id, user_id)
);
CREATE INDEX IF NOT EXISTS %[5]sreviews_cafe_created_idx ON %[1]s (cafe_id, created_at DESC);
CREATE INDEX IF NOT EXISTS %[5]sreviews_user_created_idx ON %[1]s (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS %[2]s (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id      TEXT NOT NULL,
    cafe_id      TEXT NOT NULL,
    cafe_name    TEXT NOT NULL DEFAULT '',
    cafe_address TEXT NOT NULL DEFAULT '',
    added_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, cafe_id)
);
CREATE INDEX IF NOT EXISTS %[5]sfavorites_user_added_idx ON %[2]s (user_id, added_at DESC);

CREATE TABLE IF NOT EXISTS %[3]s (
    uid          TEXT PRIMARY KEY,
    display_name TEXT NOT NULL DEFAULT '',
    email        TEXT NOT NULL DEFAULT '',
    photo_url    TEXT NOT NULL DEFAULT '',
    bio          TEXT NOT NULL DEFAULT '',
    location     TEXT NOT NULL DEFAULT '',
    preferences  JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[4]s (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    address      TEXT NOT NULL DEFAULT '',
    rating       DOUBLE PRECISION,
    review_count INTEGER,
    lat          DOUBLE PRECISION,
    lng          DOUBLE PRECISION,
    tags         TEXT[] NOT NULL DEFAULT '{}',
    place_id     TEXT NOT NULL DEFAULT '',
    price_level  INTEGER,
    photos       TEXT[] NOT NULL DEFAULT '{}',
    types        TEXT[] NOT NULL DEFAULT '{}'
);
`, t.Reviews, t.Favorites, t.Users, t.Cafes, t.Prefix)
}
