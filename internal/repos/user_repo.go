package repos

import (
	"context"
	"fmt"

	"storeadmin/internal/domain"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,name,password_hash FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, one(err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,name,password_hash FROM users WHERE id=?`), id)
	if err != nil {
		return nil, one(err)
	}
	return &u, nil
}

// Upsert creates the user or leaves an existing row with the same email untouched.
func (r *UserRepo) Upsert(ctx context.Context, u domain.User) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO users(id,email,name,password_hash,created_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(email) DO NOTHING`), u.ID, u.Email, u.Name, u.Hash, now())
	return err
}

// SeedUsers makes sure the demo accounts exist (idempotent).
func SeedUsers(ctx context.Context, db *sqlx.DB) (int, error) {
	users := []struct{ id, email, name string }{
		{"u-alice", "alice@storeadmin.test", "Alice"},
		{"u-bob", "bob@storeadmin.test", "Bob"},
	}
	repo := NewUserRepo(db)
	for _, x := range users {
		h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("hash password for %s: %w", x.email, err)
		}
		if err := repo.Upsert(ctx, domain.User{ID: x.id, Email: x.email, Name: x.name, Hash: string(h)}); err != nil {
			return 0, fmt.Errorf("seed %s: %w", x.email, err)
		}
	}
	return len(users), nil
}
