package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tedred-internship-api/internal/domain"
)

// DBTX is the subset of *pgxpool.Pool the repositories use
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ApplicationRepo struct {
	db DBTX
}

// NewApplicationRepository persists submitted applications. It satisfies
// domain.ApplicationSubmitter.
func NewApplicationRepository(db DBTX) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// Submit inserts the application. A retry with the same reference number is a no-op.
func (r *ApplicationRepo) Submit(ctx context.Context, app *domain.SubmittedApplication) error {
	payload, err := json.Marshal(app.Record)
	if err != nil {
		return fmt.Errorf("failed to encode application: %w", err)
	}

	var topDepartment *string
	if top, ok := app.Record.IkigaiResults.Top(); ok {
		key := string(top.Key)
		topDepartment = &key
	}

	query := `
		INSERT INTO internship_applications (
			reference_number, session_id, first_name, last_name, email, phone,
			department, top_category, interview_date, resume_name, payload, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (reference_number) DO NOTHING`

	rec := app.Record
	_, err = r.db.Exec(ctx, query,
		app.ReferenceNumber,
		app.SessionID,
		rec.FirstName,
		rec.LastName,
		rec.Email,
		rec.Phone,
		rec.Department,
		topDepartment,
		rec.InterviewDate,
		rec.ResumeURL,
		payload,
		app.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// GetByReference loads a submitted application
func (r *ApplicationRepo) GetByReference(ctx context.Context, reference string) (*domain.SubmittedApplication, error) {
	query := `
		SELECT reference_number, session_id, payload, submitted_at
		FROM internship_applications
		WHERE reference_number = $1`

	var app domain.SubmittedApplication
	var payload []byte
	err := r.db.QueryRow(ctx, query, reference).Scan(
		&app.ReferenceNumber, &app.SessionID, &payload, &app.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	app.Record = domain.NewApplicationRecord()
	if err := json.Unmarshal(payload, &app.Record); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return &app, nil
}
