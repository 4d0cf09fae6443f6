package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a stored plan history row.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	Macros    Macros    `json:"macros"`
	Plan      *Plan     `json:"plan_data"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is a database-backed repository for plan history.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts a plan into the history and returns the new record ID.
func (r *Repository) Save(ctx context.Context, userID, name string, p *Plan) (string, error) {
	planJSON, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan: %w", err)
	}
	macrosJSON, err := json.Marshal(p.Macros)
	if err != nil {
		return "", fmt.Errorf("failed to marshal macros: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (id, user_id, name, calories, macros, plan_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, name, p.Calories, string(macrosJSON), string(planJSON), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return id, nil
}

// ListRecent retrieves the N most recent plans for a user, newest first.
// The stored plan_data is a bare Plan and is restored as such.
func (r *Repository) ListRecent(ctx context.Context, userID string, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, calories, macros, plan_data, created_at
		 FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var macrosJSON, planJSON string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Calories, &macrosJSON, &planJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		if err := json.Unmarshal([]byte(macrosJSON), &rec.Macros); err != nil {
			return nil, fmt.Errorf("failed to unmarshal macros for plan %s: %w", rec.ID, err)
		}
		var p Plan
		if err := json.Unmarshal([]byte(planJSON), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan data for plan %s: %w", rec.ID, err)
		}
		rec.Plan = &p
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Latest returns the most recent plan for a user, or nil when none exists.
func (r *Repository) Latest(ctx context.Context, userID string) (*Record, error) {
	records, err := r.ListRecent(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
