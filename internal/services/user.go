package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

const userColumns = `id, email, username, first_name, last_name, password_hash, bio, is_active, searchable, created_at, updated_at`

type UserService struct {
	db DBConn
}

func NewUserService(db DBConn) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", params.Email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	user := &models.User{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO users (email, username, first_name, last_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		params.Email, params.Username, params.FirstName, params.LastName, params.PasswordHash,
	).Scan(userDest(user)...)
	if isUniqueViolation(err, "users_username_key") {
		return nil, ErrUsernameTaken
	}
	if isUniqueViolation(err, "users_email_key") {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, "getting user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, "getting user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserService) getOne(ctx context.Context, op, sql string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, arg).Scan(userDest(user)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetActive returns the user only when the account exists and is active.
func (s *UserService) GetActive(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Search finds searchable, active users by username prefix or substring,
// excluding the caller and anyone in a block with the caller.
func (s *UserService) Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []models.UserSearchResult{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, username FROM users
		 WHERE id != $1
		   AND is_active = true
		   AND searchable = true
		   AND LOWER(username) LIKE $2
		   AND NOT EXISTS (
		     SELECT 1 FROM user_blocks
		     WHERE (blocker_id = $1 AND blocked_id = users.id)
		        OR (blocker_id = users.id AND blocked_id = $1)
		   )
		 ORDER BY username
		 LIMIT 20`,
		currentUserID, "%"+strings.ToLower(query)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var results []models.UserSearchResult
	for rows.Next() {
		var r models.UserSearchResult
		if err := rows.Scan(&r.ID, &r.Username); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	if results == nil {
		results = []models.UserSearchResult{}
	}
	return results, nil
}

func userDest(u *models.User) []any {
	return []any{&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Bio, &u.IsActive, &u.Searchable, &u.CreatedAt, &u.UpdatedAt}
}
