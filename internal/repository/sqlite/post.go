package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository"
)

var _ repository.PostRepository = (*PostRepo)(nil)

// PostRepo stores posts and performs their association enrichment.
type PostRepo struct {
	conn *sql.DB
}

// enrichedSelect is the shared SELECT for every read path that returns
// fully enriched posts.
//
// JOIN SEMANTICS:
//   - INNER JOIN users: every post has exactly one owner, so the join
//     can never drop a row.
//   - LEFT JOIN categories: a post's category_id may be NULL (or its
//     category may have been deleted, which nulls the FK). The post must
//     still come back — with cat_id/cat_name NULL, scanned below into
//     nullable locals.
const enrichedSelect = `
	SELECT p.id, p.title, p.content, p.featured_image, p.category_id, p.user_id,
	       p.created_at, p.updated_at,
	       u.username, u.profile_image,
	       c.name
	FROM posts p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN categories c ON c.id = p.category_id`

// newestFirst orders by creation time, id as a tiebreak so that posts
// created within the same clock reading still page deterministically.
const newestFirst = ` ORDER BY p.created_at DESC, p.id DESC`

// scanEnriched reads one enriched row. The row source is either *sql.Row
// or *sql.Rows — both satisfy this tiny scan interface.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnriched(row rowScanner) (*model.Post, error) {
	var (
		post         model.Post
		owner        model.UserSummary
		categoryName sql.NullString
	)

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.FeaturedImage,
		&post.CategoryID,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&owner.Username,
		&owner.ProfileImage,
		&categoryName,
	)
	if err != nil {
		return nil, err
	}

	owner.ID = post.UserID
	post.User = &owner

	if post.CategoryID != nil && categoryName.Valid {
		post.Category = &model.CategorySummary{
			ID:   *post.CategoryID,
			Name: categoryName.String,
		}
	}

	return &post, nil
}

// Create inserts a new post. ID and timestamps are filled on the passed
// struct; enrichment is NOT loaded here — the service follows up with
// GetByID (read-after-write, two independent round-trips, intentionally
// not wrapped in a transaction).
//
// A FOREIGN KEY violation means the client supplied a category_id that
// references no existing category. That surfaces as a validation error —
// never a silently-null category.
func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO posts (title, content, featured_image, category_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		post.FeaturedImage,
		post.CategoryID,
		post.UserID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("category_id", "Referenced category does not exist")
		}
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a single post with full enrichment.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	post, err := scanEnriched(r.conn.QueryRowContext(ctx,
		enrichedSelect+` WHERE p.id = ?`,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("Post not found")
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return post, nil
}

// List returns one page of posts, newest first, plus the total count.
//
// LIMIT/OFFSET VALUES ARE PASSED THROUGH AS-IS.
// The boundary layer coerces unparseable input to defaults, but zero or
// negative numbers that survive coercion reach SQLite untouched (a
// negative LIMIT means "no limit" there). Correcting them here would
// silently change the API's observable behaviour.
func (r *PostRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, int, error) {
	return r.listPage(ctx, ``, nil, opts)
}

// ListByCategory is List filtered to one category.
func (r *PostRepo) ListByCategory(ctx context.Context, categoryID int64, opts repository.ListOptions) ([]model.Post, int, error) {
	return r.listPage(ctx, ` WHERE p.category_id = ?`, []any{categoryID}, opts)
}

func (r *PostRepo) listPage(ctx context.Context, where string, args []any, opts repository.ListOptions) ([]model.Post, int, error) {
	// Total count first — the page itself may be empty (offset past the
	// end) while the total is still meaningful for pagination arithmetic.
	var total int
	countQuery := `SELECT COUNT(*) FROM posts p` + where
	if err := r.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}

	query := enrichedSelect + where + newestFirst + ` LIMIT ? OFFSET ?`
	rows, err := r.conn.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListByUser returns ALL posts owned by one user, newest first.
//
// Category-enriched only: the owner summary is deliberately skipped —
// this read serves "my posts", where the caller already knows who they
// are. The LEFT JOIN semantics for the category are the same as above.
func (r *PostRepo) ListByUser(ctx context.Context, userID int64) ([]model.Post, error) {
	rows, err := r.conn.QueryContext(ctx, `
		SELECT p.id, p.title, p.content, p.featured_image, p.category_id, p.user_id,
		       p.created_at, p.updated_at,
		       c.name
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.user_id = ?`+newestFirst,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts for user %d: %w", userID, err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var (
			post         model.Post
			categoryName sql.NullString
		)
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.FeaturedImage,
			&post.CategoryID,
			&post.UserID,
			&post.CreatedAt,
			&post.UpdatedAt,
			&categoryName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		if post.CategoryID != nil && categoryName.Valid {
			post.Category = &model.CategorySummary{ID: *post.CategoryID, Name: categoryName.String}
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Search returns every post whose title OR content contains the query,
// matched case-insensitively, newest first, fully enriched. No pagination.
//
// SQLite's LIKE is case-insensitive for ASCII by default, which matches
// the contract here. The query text is a bound parameter — the wildcards
// are added around it, not interpolated into the SQL.
func (r *PostRepo) Search(ctx context.Context, query string) ([]model.Post, error) {
	pattern := "%" + query + "%"

	rows, err := r.conn.QueryContext(ctx,
		enrichedSelect+` WHERE p.title LIKE ? OR p.content LIKE ?`+newestFirst,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// Update writes the mutable columns. The owner column is never in the SET
// list — ownership is immutable by construction, not by convention.
func (r *PostRepo) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, featured_image = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.FeaturedImage,
		post.CategoryID,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("category_id", "Referenced category does not exist")
		}
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundMsg("Post not found")
	}

	return nil
}

// Delete removes a post by id. The ownership check happens in the service
// BEFORE this is called — by the time we're here, deletion is authorized.
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundMsg("Post not found")
	}

	return nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	posts := []model.Post{}
	for rows.Next() {
		post, err := scanEnriched(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}
	return posts, nil
}
