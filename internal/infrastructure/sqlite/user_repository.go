package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userRow struct {
	ID           string `db:"id"`
	WarehouseID  string `db:"warehouse_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Name         string `db:"name"`
	Role         string `db:"role"`
	Status       string `db:"status"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

// UserRepo operadores sobre SQLite.
type UserRepo struct {
	q sqlx.ExtContext
}

func NewUserRepository(q sqlx.ExtContext) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	row := userRow{
		ID: u.ID, WarehouseID: u.WarehouseID, Email: u.Email, PasswordHash: u.PasswordHash,
		Name: u.Name, Role: u.Role, Status: u.Status,
		CreatedAt: formatTime(u.CreatedAt), UpdatedAt: formatTime(u.UpdatedAt),
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO users (id, warehouse_id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES (:id, :warehouse_id, :email, :password_hash, :name, :role, :status, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		SELECT id, warehouse_id, email, password_hash, name, role, status, created_at, updated_at
		FROM users WHERE email = ?`, email)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u := &entity.User{
		ID: row.ID, WarehouseID: row.WarehouseID, Email: row.Email, PasswordHash: row.PasswordHash,
		Name: row.Name, Role: row.Role, Status: row.Status,
	}
	if u.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}
