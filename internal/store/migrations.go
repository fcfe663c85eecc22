package store

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tools (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    long_description TEXT NOT NULL DEFAULT '',
    category_id      TEXT NOT NULL DEFAULT '',
    pricing          TEXT NOT NULL DEFAULT 'Free',
    rating           REAL NOT NULL DEFAULT 0,
    views            INTEGER NOT NULL DEFAULT 0,
    clicks           INTEGER NOT NULL DEFAULT 0,
    favorites        INTEGER NOT NULL DEFAULT 0,
    featured         BOOLEAN NOT NULL DEFAULT 0,
    tags             TEXT NOT NULL DEFAULT '[]',
    features         TEXT NOT NULL DEFAULT '[]',
    status           TEXT NOT NULL DEFAULT 'Draft',
    source_url       TEXT NOT NULL DEFAULT '',
    created_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tools_status ON tools(status);
CREATE INDEX IF NOT EXISTS idx_tools_category ON tools(category_id);
CREATE INDEX IF NOT EXISTS idx_tools_views ON tools(views);
CREATE INDEX IF NOT EXISTS idx_tools_created_at ON tools(created_at);

CREATE TABLE IF NOT EXISTS collections (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    views       INTEGER NOT NULL DEFAULT 0,
    tool_count  INTEGER NOT NULL DEFAULT 0,
    is_public   BOOLEAN NOT NULL DEFAULT 0,
    owner_name  TEXT NOT NULL DEFAULT '',
    owner_email TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_collections_public ON collections(is_public);

CREATE TABLE IF NOT EXISTS interactions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    tool_id     TEXT NOT NULL REFERENCES tools(id),
    kind        TEXT NOT NULL,
    occurred_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_tool ON interactions(tool_id);
CREATE INDEX IF NOT EXISTS idx_interactions_occurred ON interactions(occurred_at);

CREATE TABLE IF NOT EXISTS rankings (
    kind        TEXT NOT NULL,
    tool_id     TEXT NOT NULL REFERENCES tools(id),
    position    INTEGER NOT NULL,
    score       REAL NOT NULL DEFAULT 0,
    computed_at DATETIME NOT NULL,
    PRIMARY KEY (kind, tool_id)
);

CREATE INDEX IF NOT EXISTS idx_rankings_kind ON rankings(kind, position);
`
