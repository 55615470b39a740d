package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepo{db: s.db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return apperror.Internal(err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, password, doc) VALUES ($1, $2, $3::jsonb)`,
		user.ID, user.Password, string(doc))
	return userWriteError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE doc->>'email' = $1`, email)
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE doc->>'phone' = $1`, phone)
}

func (r *userRepo) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		doc      []byte
		password string
	)
	err := r.db.QueryRow(ctx, `SELECT doc, password FROM users `+where, arg).Scan(&doc, &password)
	if err != nil {
		return nil, mapError(err, "User")
	}
	return decodeUser(doc, password)
}

// createdAt is stored as RFC3339Nano text, whose fractional part varies in length,
// so it must be compared as a timestamp.
const listUsersSQL = `SELECT doc, password FROM users ORDER BY (doc->>'createdAt')::timestamptz DESC`

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var (
			doc      []byte
			password string
		)
		if err := rows.Scan(&doc, &password); err != nil {
			return nil, apperror.Internal(err)
		}
		u, err := decodeUser(doc, password)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// Update merges the scalar profile fields into the stored document, keeping reference lists.
func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	fields := map[string]any{
		"name":         user.Name,
		"email":        user.Email,
		"occupation":   user.Occupation,
		"role":         user.Role,
		"profileImage": user.ProfileImage,
		"cv":           user.CV,
		"updatedAt":    user.UpdatedAt,
	}
	if user.Phone != "" {
		fields["phone"] = user.Phone
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return apperror.Internal(err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET doc = (doc - 'phone') || $2::jsonb, password = $3 WHERE id = $1`,
		user.ID, string(patch), user.Password)
	if err != nil {
		return userWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

// AppendRef appends to a JSON array inside the document in one statement.
func (r *userRepo) AppendRef(ctx context.Context, userID string, field domain.RefField, refID string) error {
	if !field.Valid() {
		return apperror.Internal(fmt.Errorf("unknown user reference field %q", field))
	}
	tag, err := r.db.Exec(ctx, appendRefSQL(TableUsers), userID, string(field), refID)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func decodeUser(doc []byte, password string) (*domain.User, error) {
	var user domain.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, apperror.Internal(err)
	}
	user.Password = password
	return &user, nil
}

func userWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.ConstraintName == "users_phone_key" {
			return apperror.Conflict("User with this phone number already exists")
		}
		return apperror.Conflict("User with this email already exists")
	}
	return mapError(err, "User")
}
