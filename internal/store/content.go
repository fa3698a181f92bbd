package store

import (
	"database/sql"
	"fmt"
	"time"

	"inkwell/internal/models"
)

// ContentStore handles all content-item database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// List returns content items ordered by creation date descending, with the
// creator username joined for display. When includeUnpublished is false,
// only published items are returned — this is the public-listing filter.
func (s *ContentStore) List(includeUnpublished bool) ([]models.ContentItem, error) {
	query := `
		SELECT c.id, c.title, c.body, c.image_filename, c.is_published,
		       c.created_at, c.creator_id, COALESCE(a.username, '')
		FROM contents c
		LEFT JOIN admin_users a ON c.creator_id = a.id`
	if !includeUnpublished {
		query += `
		WHERE c.is_published = 1`
	}
	query += `
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var c models.ContentItem
		var createdAt int64
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Body, &c.ImageFilename, &c.IsPublished,
			&createdAt, &c.CreatorID, &c.CreatorName,
		); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a content item by its ID. Returns nil if not found.
func (s *ContentStore) FindByID(id int64) (*models.ContentItem, error) {
	var c models.ContentItem
	var createdAt int64
	err := s.db.QueryRow(`
		SELECT c.id, c.title, c.body, c.image_filename, c.is_published,
		       c.created_at, c.creator_id, COALESCE(a.username, '')
		FROM contents c
		LEFT JOIN admin_users a ON c.creator_id = a.id
		WHERE c.id = ?
	`, id).Scan(
		&c.ID, &c.Title, &c.Body, &c.ImageFilename, &c.IsPublished,
		&createdAt, &c.CreatorID, &c.CreatorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	c.CreatedAt = fromMillis(createdAt)
	return &c, nil
}

// Create inserts a new content item with a server-assigned timestamp and
// returns it with the generated ID.
func (s *ContentStore) Create(c *models.ContentItem) (*models.ContentItem, error) {
	// Millisecond precision, matching what the created_at column stores.
	c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	res, err := s.db.Exec(`
		INSERT INTO contents (title, body, image_filename, is_published, created_at, creator_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.Title, c.Body, c.ImageFilename, c.IsPublished, toMillis(c.CreatedAt), c.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create content id: %w", err)
	}
	c.ID = id
	return c, nil
}

// Update replaces all mutable fields of an existing content item.
// created_at and creator_id are immutable and left untouched.
func (s *ContentStore) Update(c *models.ContentItem) error {
	_, err := s.db.Exec(`
		UPDATE contents SET title = ?, body = ?, image_filename = ?, is_published = ?
		WHERE id = ?
	`, c.Title, c.Body, c.ImageFilename, c.IsPublished, c.ID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// Delete removes a content item by ID. The referenced upload file, if
// any, is left in place; see the admin delete handler.
func (s *ContentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM contents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// Count returns the total number of content items.
func (s *ContentStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM contents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contents: %w", err)
	}
	return count, nil
}

// CountPublished returns the number of published content items.
func (s *ContentStore) CountPublished() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM contents WHERE is_published = 1`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count published contents: %w", err)
	}
	return count, nil
}
