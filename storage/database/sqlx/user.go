package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/user"
)

// userRow mirrors the staff table.
type userRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Username     string      `db:"username"`
	Email        null.String `db:"email"`
	IsActive     bool        `db:"is_active"`
	Role         string      `db:"role"`
	PasswordHash []byte      `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) row(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        null.NewString(usr.Email, usr.Email != ""),
		IsActive:     usr.IsActive,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (repo userRepository) unrow(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email.String,
		IsActive:     row.IsActive,
		Role:         row.Role,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	q := `SELECT EXISTS (SELECT 1 FROM staff WHERE (username = $1 OR ($2 <> '' AND email = $2))`
	args := []interface{}{username, email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		inQ, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	q += `)`

	var exists bool
	if err := repo.db.Get(&exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking staff uniqueness")
	}
	if exists {
		return core.NewValidationError(
			errors.New("staff account exists"),
			core.FieldError{Field: "username", Error: "a staff account with this username or email already exists"},
		)
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) error {
	usr.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO staff (id, name, username, email, is_active, role, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :username, :email, :is_active, :role, :password_hash, :created_at, :updated_at, :last_login)`,
		repo.row(usr))
	return errors.Wrap(err, "inserting staff account")
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM staff ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying staff accounts")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.unrow(row))
	}
	return users, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM staff WHERE id = $1`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding staff account by ID")
	}
	return repo.unrow(row), nil
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM staff WHERE username = $1 OR email = $1`, username)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding staff account")
	}
	return repo.unrow(row), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) error {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE staff
		SET name = :name, username = :username, email = :email, is_active = :is_active,
		    role = :role, password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`, repo.row(usr))
	if err != nil {
		return errors.Wrap(err, "updating staff account")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return user.ErrNotFound
	}
	return nil
}
