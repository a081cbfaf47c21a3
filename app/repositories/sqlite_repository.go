package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rawblog/app/models"

	_ "modernc.org/sqlite"
)

const postsSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	title   TEXT NOT NULL,
	content TEXT NOT NULL
)`

// SQLitePostRepository implements PostRepository on a private in-memory
// SQLite database.
type SQLitePostRepository struct {
	db       *sql.DB
	strategy IDStrategy
}

// NewSQLitePostRepository opens a fresh in-memory database and creates the
// posts table.
func NewSQLitePostRepository(strategy IDStrategy) (*SQLitePostRepository, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// Each connection to :memory: sees its own database, so pin the pool
	// to a single connection that is never recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(postsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create posts table: %w", err)
	}

	if strategy == "" {
		strategy = IDSize
	}
	return &SQLitePostRepository{db: db, strategy: strategy}, nil
}

// Create creates a new post
func (r *SQLitePostRepository) Create(ctx context.Context, post *models.Post) error {
	if r.strategy != IDSize {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO posts (title, content) VALUES (?, ?)`, post.Title, post.Content)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read post id: %w", err)
		}
		post.ID = int(id)
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	id := count + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO posts (id, title, content) VALUES (?, ?, ?)`,
		id, post.Title, post.Content); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	post.ID = id
	return nil
}

// GetByID retrieves a post by ID
func (r *SQLitePostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content FROM posts WHERE id = ?`, id).
		Scan(&post.ID, &post.Title, &post.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// List retrieves every post in ID order
func (r *SQLitePostRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, content FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// Update updates an existing post
func (r *SQLitePostRepository) Update(ctx context.Context, post *models.Post) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ? WHERE id = ?`, post.Title, post.Content, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return requireAffected(res)
}

// Delete deletes a post by ID
func (r *SQLitePostRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return requireAffected(res)
}

// Count returns the number of stored posts
func (r *SQLitePostRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// Close releases the database; its contents are discarded
func (r *SQLitePostRepository) Close() error {
	return r.db.Close()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
