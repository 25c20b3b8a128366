package store

// Schema contains the SQL statements to create the audio store schema.
//
// file_info maps logical names to content digests and per-digest format
// metadata. A name may appear with several digests (re-upload with
// different content); the (name, content_hash) pair is unique so
// concurrent duplicate uploads collapse into one row.
//
// file_store holds one blob per digest regardless of how many names
// reference it.
//
// file_chunks is the derived chunk cache; rows can be dropped at any
// time without affecting the canonical tables.
const Schema = `
CREATE TABLE IF NOT EXISTS file_info (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    channels     INTEGER NOT NULL,
    framerate    INTEGER NOT NULL,
    frames       INTEGER NOT NULL,
    duration     REAL NOT NULL,
    comptype     TEXT NOT NULL,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (name, content_hash)
);

CREATE INDEX IF NOT EXISTS idx_file_info_name ON file_info(name);
CREATE INDEX IF NOT EXISTS idx_file_info_hash ON file_info(content_hash);

CREATE TABLE IF NOT EXISTS file_store (
    content_hash TEXT PRIMARY KEY,
    content      BLOB NOT NULL,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS file_chunks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    start_frame INTEGER NOT NULL,
    end_frame   INTEGER NOT NULL,
    content     BLOB NOT NULL,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (name, start_frame, end_frame)
);

CREATE INDEX IF NOT EXISTS idx_file_chunks_name ON file_chunks(name);
`
