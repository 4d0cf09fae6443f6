package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// List is a persisted shopping list derived from one plan.
type List struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository handles persistence of derived shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores a derived list for a plan, replacing any list previously
// derived from the same plan.
func (r *Repository) Save(ctx context.Context, userID, planID string, items []string) (int64, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE plan_id = ?`, planID); err != nil {
		return 0, fmt.Errorf("failed to clear previous shopping list: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, plan_id, items, created_at) VALUES (?, ?, ?, ?)`,
		userID, planID, string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return res.LastInsertId()
}

// GetByPlanID retrieves the list derived from a plan, or nil when none exists.
func (r *Repository) GetByPlanID(ctx context.Context, planID string) (*List, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_id, items, created_at FROM shopping_lists WHERE plan_id = ?`,
		planID,
	)

	var list List
	var itemsJSON string
	if err := row.Scan(&list.ID, &list.UserID, &list.PlanID, &itemsJSON, &list.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list for plan %s: %w", planID, err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &list, nil
}
