package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"memorybank/internal/models"
)

type PhotoRepository struct {
	db *DB
}

func NewPhotoRepository(db *DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

const photoColumns = "id, user_id, file_path, uploaded_at, caption, emotion, emotion_confidence, emotions_json, emotion_emojis_json"

func (r *PhotoRepository) Insert(ctx context.Context, userID, filePath string, uploadedAt time.Time) (*models.Photo, error) {
	photo := &models.Photo{
		UserID:     userID,
		FilePath:   filePath,
		UploadedAt: uploadedAt,
	}
	photo.DecodeEmotionLists("", "")

	if r.db.Type() == "postgres" {
		query := r.db.Rebind("INSERT INTO photos (user_id, file_path, uploaded_at) VALUES (?, ?, ?) RETURNING id")
		if err := r.db.Conn().QueryRowContext(ctx, query, userID, filePath, uploadedAt).Scan(&photo.ID); err != nil {
			return nil, fmt.Errorf("failed to insert photo: %w", err)
		}
		return photo, nil
	}

	result, err := r.db.Conn().ExecContext(ctx,
		"INSERT INTO photos (user_id, file_path, uploaded_at) VALUES (?, ?, ?)",
		userID, filePath, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted photo id: %w", err)
	}
	photo.ID = id
	return photo, nil
}

func (r *PhotoRepository) ListByUser(ctx context.Context, userID string) ([]models.Photo, error) {
	query := r.db.Rebind("SELECT " + photoColumns + " FROM photos WHERE user_id = ? ORDER BY uploaded_at DESC")
	rows, err := r.db.Conn().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	return scanPhotos(rows)
}

// GetOwned returns the photo only when it belongs to userID; any other
// combination is ErrNotFound, so ownership failures are indistinguishable
// from missing rows.
func (r *PhotoRepository) GetOwned(ctx context.Context, id int64, userID string) (*models.Photo, error) {
	query := r.db.Rebind("SELECT " + photoColumns + " FROM photos WHERE id = ? AND user_id = ?")
	row := r.db.Conn().QueryRowContext(ctx, query, id, userID)

	photo, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id int64, userID string) error {
	query := r.db.Rebind("DELETE FROM photos WHERE id = ? AND user_id = ?")
	result, err := r.db.Conn().ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTagResult writes a classification result onto the photo row. The
// extended column set is tried first; when the error text points at the
// optional list columns the update is retried with the minimal schema, so a
// store that predates the emotion-list migration still gets tagged.
func (r *PhotoRepository) UpdateTagResult(ctx context.Context, photoID int64, tag *models.TagResult) error {
	emotionsJSON, err := json.Marshal(tag.Emotions)
	if err != nil {
		return fmt.Errorf("failed to encode emotions: %w", err)
	}
	emojisJSON, err := json.Marshal(tag.EmotionEmojis)
	if err != nil {
		return fmt.Errorf("failed to encode emotion emojis: %w", err)
	}

	extended := r.db.Rebind(`UPDATE photos
		SET caption = ?, emotion = ?, emotion_confidence = ?, emotions_json = ?, emotion_emojis_json = ?
		WHERE id = ?`)
	_, err = r.db.Conn().ExecContext(ctx, extended,
		tag.Caption, tag.PrimaryEmotion, tag.Confidence, string(emotionsJSON), string(emojisJSON), photoID)
	if err == nil {
		return nil
	}
	if !isMissingListColumns(err) {
		return fmt.Errorf("failed to update photo tag: %w", err)
	}

	minimal := r.db.Rebind("UPDATE photos SET caption = ?, emotion = ?, emotion_confidence = ? WHERE id = ?")
	if _, err := r.db.Conn().ExecContext(ctx, minimal,
		tag.Caption, tag.PrimaryEmotion, tag.Confidence, photoID); err != nil {
		return fmt.Errorf("failed to update photo tag: %w", err)
	}
	return nil
}

// isMissingListColumns is a deliberately loose keyword check: the drivers do
// not report missing columns with a distinct error type.
func isMissingListColumns(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "emotions_json") ||
		strings.Contains(msg, "emotion_emojis_json") ||
		strings.Contains(msg, "column")
}

// DistinctEmotions unions the primary emotion column with every value found
// inside stored emotion lists, deduplicated and sorted.
func (r *PhotoRepository) DistinctEmotions(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	rows, err := r.db.Conn().QueryContext(ctx, "SELECT DISTINCT emotion FROM photos WHERE emotion IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query emotions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var emotion string
		if err := rows.Scan(&emotion); err != nil {
			return nil, fmt.Errorf("failed to scan emotion: %w", err)
		}
		if emotion != "" {
			seen[emotion] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	listRows, err := r.db.Conn().QueryContext(ctx, "SELECT DISTINCT emotions_json FROM photos WHERE emotions_json IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion lists: %w", err)
	}
	defer listRows.Close()
	for listRows.Next() {
		var encoded string
		if err := listRows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to scan emotion list: %w", err)
		}
		var emotions []string
		if err := json.Unmarshal([]byte(encoded), &emotions); err != nil {
			continue
		}
		for _, emotion := range emotions {
			if emotion != "" {
				seen[emotion] = true
			}
		}
	}
	if err := listRows.Err(); err != nil {
		return nil, err
	}

	all := make([]string, 0, len(seen))
	for emotion := range seen {
		all = append(all, emotion)
	}
	sort.Strings(all)
	return all, nil
}

// SearchFilter holds the optional conjunctive filters for Search. Emotion
// matches either the primary emotion column or a substring of the stored
// emotion list.
type SearchFilter struct {
	UserID  string
	Emotion string
	From    *time.Time
	To      *time.Time
}

func (r *PhotoRepository) Search(ctx context.Context, filter SearchFilter) ([]models.Photo, error) {
	query := "SELECT " + photoColumns + " FROM photos WHERE 1=1"
	var params []any

	if filter.UserID != "" {
		query += " AND user_id = ?"
		params = append(params, filter.UserID)
	}
	if filter.Emotion != "" {
		query += " AND (emotion = ? OR emotions_json LIKE ?)"
		params = append(params, filter.Emotion, "%"+filter.Emotion+"%")
	}
	if filter.From != nil {
		query += " AND uploaded_at >= ?"
		params = append(params, *filter.From)
	}
	if filter.To != nil {
		query += " AND uploaded_at <= ?"
		params = append(params, *filter.To)
	}
	query += " ORDER BY uploaded_at DESC"

	rows, err := r.db.Conn().QueryContext(ctx, r.db.Rebind(query), params...)
	if err != nil {
		return nil, fmt.Errorf("failed to search photos: %w", err)
	}
	defer rows.Close()

	return scanPhotos(rows)
}

// TaggedPhoto is the narrow projection the timeline aggregation reads.
type TaggedPhoto struct {
	Emotion    string
	Emotions   []string
	UploadedAt time.Time
}

// ListTagged returns the user's photos that carry any emotion data, oldest
// first, with the emotion list already decoded.
func (r *PhotoRepository) ListTagged(ctx context.Context, userID string) ([]TaggedPhoto, error) {
	query := r.db.Rebind(`SELECT emotion, emotions_json, uploaded_at
		FROM photos
		WHERE user_id = ? AND (emotion IS NOT NULL OR emotions_json IS NOT NULL)
		ORDER BY uploaded_at ASC`)
	rows, err := r.db.Conn().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tagged photos: %w", err)
	}
	defer rows.Close()

	var photos []TaggedPhoto
	for rows.Next() {
		var emotion, emotionsJSON sql.NullString
		var uploadedAt time.Time
		if err := rows.Scan(&emotion, &emotionsJSON, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tagged photo: %w", err)
		}

		photo := TaggedPhoto{Emotion: emotion.String, UploadedAt: uploadedAt}
		if emotionsJSON.Valid && emotionsJSON.String != "" {
			if err := json.Unmarshal([]byte(emotionsJSON.String), &photo.Emotions); err != nil {
				photo.Emotions = nil
			}
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*models.Photo, error) {
	var photo models.Photo
	var caption, emotion, emotionsJSON, emojisJSON sql.NullString
	var confidence sql.NullFloat64

	err := row.Scan(&photo.ID, &photo.UserID, &photo.FilePath, &photo.UploadedAt,
		&caption, &emotion, &confidence, &emotionsJSON, &emojisJSON)
	if err != nil {
		return nil, err
	}

	if caption.Valid {
		photo.Caption = &caption.String
	}
	if emotion.Valid {
		photo.Emotion = &emotion.String
	}
	if confidence.Valid {
		photo.EmotionConfidence = &confidence.Float64
	}
	photo.DecodeEmotionLists(emotionsJSON.String, emojisJSON.String)
	return &photo, nil
}

func scanPhotos(rows *sql.Rows) ([]models.Photo, error) {
	var photos []models.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	return photos, rows.Err()
}
