package store

import (
	"context"

	"github.com/michael-berardi/harborform/internal/models"
)

func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (kind, name, email, company, payload, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.ExecContext(ctx, query, sub.Kind, sub.Name, sub.Email, sub.Company, sub.Payload)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

// GetSubmissions returns a page of submissions, newest first.
func (s *Store) GetSubmissions(ctx context.Context, limit, offset int) ([]models.Submission, error) {
	query := `
		SELECT id, kind, name, email, company, payload, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.Kind, &sub.Name, &sub.Email, &sub.Company, &sub.Payload, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) GetTotalSubmissionsCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
