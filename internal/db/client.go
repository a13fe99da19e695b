package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func NewDb(ctx context.Context, dsn string) (*Database, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewDatabase(pool), nil
}

// EnsureAdmin creates the bootstrap admin account and its profile when it does not exist yet.
func EnsureAdmin(ctx context.Context, database DB, username, password string) error {
	if username == "" || password == "" {
		log.Println("Admin credentials not configured, skipping admin bootstrap.")
		return nil
	}

	var count int
	err := database.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users WHERE username = $1", username).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = database.Exec(ctx, `
        WITH u AS (
            INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id
        )
        INSERT INTO profiles (user_id) SELECT id FROM u
    `, username, string(hashed))
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Println("Admin user created successfully.")
	return nil
}
