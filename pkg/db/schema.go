package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

-- Downloads: one row per flipbook that reached local storage
CREATE TABLE IF NOT EXISTS downloads (
    download_id INTEGER PRIMARY KEY AUTOINCREMENT,
    archive_key TEXT NOT NULL UNIQUE,   -- "id:<flipbook id>" or "file:<pdf filename>"
    source_url TEXT NOT NULL,
    pdf_url TEXT,                       -- candidate that served the file
    file_path TEXT NOT NULL,
    title TEXT,
    size_bytes INTEGER DEFAULT 0,
    downloaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_downloads_source ON downloads(source_url);
CREATE INDEX IF NOT EXISTS idx_downloads_at ON downloads(downloaded_at);
`
