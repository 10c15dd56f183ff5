package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Download is one archive entry.
type Download struct {
	DownloadID   int64
	ArchiveKey   string
	SourceURL    string
	PDFURL       string
	FilePath     string
	Title        string
	SizeBytes    int64
	DownloadedAt time.Time
}

// HasDownload reports whether archiveKey is already recorded.
func (db *DB) HasDownload(archiveKey string) (bool, error) {
	var id int64
	err := db.QueryRow("SELECT download_id FROM downloads WHERE archive_key = ?", archiveKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check archive: %w", err)
	}
	return true, nil
}

// RecordDownload inserts or refreshes the entry for d.ArchiveKey.
func (db *DB) RecordDownload(d Download) error {
	_, err := db.Exec(`
		INSERT INTO downloads (archive_key, source_url, pdf_url, file_path, title, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(archive_key) DO UPDATE SET
			source_url = excluded.source_url,
			pdf_url = excluded.pdf_url,
			file_path = excluded.file_path,
			title = excluded.title,
			size_bytes = excluded.size_bytes,
			downloaded_at = CURRENT_TIMESTAMP
	`, d.ArchiveKey, d.SourceURL, d.PDFURL, d.FilePath, d.Title, d.SizeBytes)
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// ListDownloads returns entries, most recent first.
func (db *DB) ListDownloads(limit int) ([]Download, error) {
	query := `
		SELECT download_id, archive_key, source_url, pdf_url, file_path, title,
		       size_bytes, downloaded_at
		FROM downloads
		ORDER BY downloaded_at DESC, download_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var downloads []Download
	for rows.Next() {
		var d Download
		var pdfURL, title sql.NullString
		if err := rows.Scan(&d.DownloadID, &d.ArchiveKey, &d.SourceURL, &pdfURL, &d.FilePath,
			&title, &d.SizeBytes, &d.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		d.PDFURL = pdfURL.String
		d.Title = title.String
		downloads = append(downloads, d)
	}

	return downloads, rows.Err()
}
