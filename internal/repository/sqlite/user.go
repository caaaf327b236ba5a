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

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately instead of at
// the call site much later.
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo stores user accounts in the shared SQLite pool.
type UserRepo struct {
	conn *sql.DB
}

// Create inserts a new user account.
//
// The caller passes a User with the PasswordHash already computed — raw
// passwords never reach this package. ID and timestamps are filled in on
// the passed struct (pointer receiver pattern: the caller's value is
// updated in place).
//
// A UNIQUE violation on username or email is translated to ErrConflict.
// The service layer checks uniqueness first for a friendlier flow, but the
// constraint is the real guarantee — two concurrent registrations for the
// same email race past the service check and only one wins here.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	// PARAMETERIZED QUERIES (the ? placeholders):
	// NEVER build SQL strings with fmt.Sprintf or string concatenation —
	// that's how SQL injection happens. The driver escapes the values.
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, bio, profile_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.ProfileImage,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User with this email or username already exists")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a single user by primary key.
//
// sql.ErrNoRows is NOT really an error — it just means "no matching row".
// We translate it to our app's NotFound error so the handler knows to
// return 404. This is a common pattern: translate database errors into
// domain errors.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by their (unique) email. Used by login.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, email)
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, bio, profile_image, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}

// ExistsByUsernameOrEmail reports whether any account already uses the
// given username or email. Registration calls this before inserting so it
// can answer with a clear conflict message instead of a raw constraint
// error.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`,
		username, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking user existence: %w", err)
	}
	return count > 0, nil
}
