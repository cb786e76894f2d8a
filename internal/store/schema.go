package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS usage_cache (
    file_path            TEXT NOT NULL,
    source_key           TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    tokens_used          INTEGER NOT NULL,
    reported_model       TEXT,
    parsed_at            TEXT NOT NULL,
    PRIMARY KEY (file_path, source_key)
);

CREATE INDEX IF NOT EXISTS idx_usage_cache_parsed ON usage_cache(parsed_at);
`
