package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/quillpost/internal/models"
)

const selectPosts = `
		SELECT p.id, p.title, p.body, p.created, p.author_id, u.username
		FROM posts p JOIN users u ON p.author_id = u.id`

// CreatePost stores a new post
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, body, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created`
	err := r.db.QueryRowContext(ctx, query, post.Title, post.Body, post.AuthorID).
		Scan(&post.ID, &post.Created)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindPostByID retrieves a post with its author's username
func (r *Repository) FindPostByID(ctx context.Context, id int64) (*models.Post, error) {
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, selectPosts+`
		WHERE p.id = $1`, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.Created, &post.AuthorID, &post.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPosts returns all posts, newest first
func (r *Repository) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPosts+`
		ORDER BY p.created DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Created, &p.AuthorID, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost replaces a post's title and body
func (r *Repository) UpdatePost(ctx context.Context, id int64, title, body string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE posts SET title = $1, body = $2 WHERE id = $3`, title, body, id)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return affectedOne(res)
}

// DeletePost removes a post
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
