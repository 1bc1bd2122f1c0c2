package db

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/google/uuid"
)

// FeedPageSize is the fixed number of posts returned by the public feed.
const FeedPageSize = 10

// scanner abstracts sql.Row and sql.Rows for shared scan helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

// PostRepository handles post persistence and feed queries
type PostRepository struct {
	db *Database
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *Database) *PostRepository {
	return &PostRepository{db: db}
}

const postSelectColumns = `
	p.id, p.title, p.description, p.locations, p.needs, p.schedule,
	p.contacts, p.state, p.slug, p.created_user_id,
	COALESCE(p.updated_by, ''), p.created_at, p.updated_at, u.slug`

// scanPost reads one joined post row
func (r *PostRepository) scanPost(row scanner) (*Post, error) {
	var p Post
	var locations, needs, contacts string

	err := row.Scan(&p.ID, &p.Title, &p.Description, &locations, &needs,
		&p.Schedule, &contacts, &p.State, &p.Slug, &p.CreatedUserID,
		&p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy)
	if err != nil {
		return nil, err
	}

	p.Locations = unmarshalStrings(locations)
	p.Needs = unmarshalStrings(needs)
	p.Contacts = unmarshalContacts(contacts)

	return &p, nil
}

// Create inserts a new post owned by userID
func (r *PostRepository) Create(ctx context.Context, p *Post, userID string) (*Post, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.State == "" {
		p.State = PostStateActive
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.CreatedUserID = userID

	locations, err := marshalJSON(p.Locations)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}
	needs, err := marshalJSON(p.Needs)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}
	contacts, err := marshalJSON(p.Contacts)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}

	_, err = r.db.DB().ExecContext(ctx, `
		INSERT INTO posts (id, title, description, locations, needs, schedule,
			contacts, state, slug, created_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Description, locations, needs, p.Schedule,
		contacts, p.State, p.Slug, userID, p.CreatedAt, p.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, errors.ErrPostSlugExists
		}
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	return p, nil
}

// GetBySlug retrieves a post by slug in any state, joined to its owner
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+postSelectColumns+`
		FROM posts p
		INNER JOIN users u ON p.created_user_id = u.id
		WHERE p.slug = ?
		LIMIT 1
	`, slug)

	post, err := r.scanPost(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPostNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return post, nil
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+postSelectColumns+`
		FROM posts p
		INNER JOIN users u ON p.created_user_id = u.id
		WHERE p.id = ?
		LIMIT 1
	`, id)

	post, err := r.scanPost(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPostNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return post, nil
}

// List returns the first feed page of active posts matching the filter,
// newest first.
func (r *PostRepository) List(ctx context.Context, filter *PostFilter) ([]Post, error) {
	where, args := buildWhere(filterConditions(filter))

	query := `
		SELECT ` + postSelectColumns + `
		FROM posts p
		INNER JOIN users u ON p.created_user_id = u.id
		WHERE ` + where + `
		ORDER BY p.created_at DESC
		LIMIT ?`
	args = append(args, FeedPageSize)

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, errors.ErrDatabaseQuery.WithCause(err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	return posts, nil
}

// Count returns the number of active posts matching the filter. The user
// join is only needed when filter conditions may reference owner fields.
func (r *PostRepository) Count(ctx context.Context, filter *PostFilter) (int, error) {
	conditions := filterConditions(filter)

	var query string
	var args []interface{}

	if len(conditions) > 0 {
		where, whereArgs := buildWhere(conditions)
		query = `
			SELECT COUNT(*)
			FROM posts p
			INNER JOIN users u ON p.created_user_id = u.id
			WHERE ` + where
		args = whereArgs
	} else {
		query = `SELECT COUNT(*) FROM posts p WHERE p.state = ?`
		args = []interface{}{PostStateActive}
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.ErrDatabaseQuery.WithCause(err)
	}
	return total, nil
}

// buildWhere assembles the WHERE clause for feed queries: the active
// state restriction plus any filter conditions.
func buildWhere(conditions []condition) (string, []interface{}) {
	exprs := []string{"p.state = ?"}
	args := []interface{}{PostStateActive}

	for _, c := range conditions {
		exprs = append(exprs, c.expr)
		args = append(args, c.args...)
	}

	return strings.Join(exprs, " AND "), args
}

// GetPostsAndTotal runs the feed query and the matching count
// concurrently and joins both results.
func (r *PostRepository) GetPostsAndTotal(ctx context.Context, filter *PostFilter) ([]Post, int, error) {
	var (
		wg       sync.WaitGroup
		posts    []Post
		total    int
		listErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, listErr = r.List(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		total, countErr = r.Count(ctx, filter)
	}()
	wg.Wait()

	if listErr != nil {
		return nil, 0, listErr
	}
	if countErr != nil {
		return nil, 0, countErr
	}

	return posts, total, nil
}

// GetByOwner returns all posts created by a user in any state, newest
// first. Used for the profile view where owners see inactive posts too.
func (r *PostRepository) GetByOwner(ctx context.Context, userID string) ([]Post, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT `+postSelectColumns+`
		FROM posts p
		INNER JOIN users u ON p.created_user_id = u.id
		WHERE p.created_user_id = ?
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, errors.ErrDatabaseQuery.WithCause(err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	return posts, nil
}

// Update applies payload to the post with the given slug on behalf of
// userID. Only the creator may update a post: any other caller gets the
// unmodified post back along with ErrNotOwner, and nothing is written.
// For the owner, the post row update and the pre-update history snapshot
// are committed in one transaction; a failure in either rolls both back.
func (r *PostRepository) Update(ctx context.Context, slug string, payload UpdatePostPayload, userID string) (*Post, error) {
	old, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if old.CreatedUserID != userID {
		return old, errors.ErrNotOwner
	}

	locations, err := marshalJSON(payload.Locations)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}
	needs, err := marshalJSON(payload.Needs)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}
	contacts, err := marshalJSON(payload.Contacts)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}

	oldLocations, err := marshalJSON(old.Locations)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}
	oldNeeds, err := marshalJSON(old.Needs)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}
	oldContacts, err := marshalJSON(old.Contacts)
	if err != nil {
		return nil, errors.ErrInvalidPostData.WithCause(err)
	}

	now := time.Now().UTC()
	state := payload.State
	if state == "" {
		state = old.State
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.ErrDatabaseTransaction.WithCause(err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		UPDATE posts
		SET title = ?, description = ?, locations = ?, needs = ?,
			schedule = ?, contacts = ?, state = ?, updated_by = ?, updated_at = ?
		WHERE slug = ?
	`, payload.Title, payload.Description, locations, needs,
		payload.Schedule, contacts, state, userID, now, slug)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO post_history (post_id, user_id, title, description,
			locations, needs, schedule, contacts, state, slug, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, old.ID, userID, old.Title, old.Description, oldLocations, oldNeeds,
		old.Schedule, oldContacts, old.State, old.Slug, now)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.ErrDatabaseTransaction.WithCause(err)
	}

	updated := *old
	updated.Title = payload.Title
	updated.Description = payload.Description
	updated.Locations = payload.Locations
	updated.Needs = payload.Needs
	updated.Schedule = payload.Schedule
	updated.Contacts = payload.Contacts
	updated.State = state
	updated.UpdatedBy = userID
	updated.UpdatedAt = now

	return &updated, nil
}

// Delete removes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB().ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}
	if rows == 0 {
		return errors.ErrPostNotFound
	}

	return nil
}
