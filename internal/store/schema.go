package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
    source_path          TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS source_fields (
    source_path          TEXT NOT NULL REFERENCES sources(source_path) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    key                  TEXT NOT NULL,
    kind                 TEXT NOT NULL,
    raw                  TEXT NOT NULL,
    PRIMARY KEY (source_path, position)
);

CREATE INDEX IF NOT EXISTS idx_sources_parsed ON sources(parsed_at);
`
