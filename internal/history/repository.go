// Package history records the outcome of every print job in a local sqlite
// database.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Job struct {
	Uuid          uuid.UUID
	SubmittedAt   time.Time
	Columns       int
	MediaWidth    int
	LastPage      bool
	Outcome       string
	FailureReason string
}

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

type JobRepository struct {
	Db *sql.DB
}

func (r *JobRepository) Close() error {
	return r.Db.Close()
}

func (r *JobRepository) Transact(f func(tx *sql.Tx) error) error {
	tx, err := r.Db.Begin()
	if err != nil {
		return fmt.Errorf("Couldn't begin transaction:\n%w", err)
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *JobRepository) Create(tx *sql.Tx, j *Job) error {
	_, err := tx.Exec(`
    INSERT INTO print_job (uuid, submitted_at, columns, media_width, last_page, outcome, failure_reason)
    VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.Uuid.String(), j.SubmittedAt.Format(time.RFC3339), j.Columns,
		j.MediaWidth, j.LastPage, j.Outcome, j.FailureReason)

	if err != nil {
		return fmt.Errorf("Failed to record print job:\n%w", err)
	}
	return nil
}

func (r *JobRepository) Get(u uuid.UUID) (*Job, error) {
	row := r.Db.QueryRow(`
    SELECT uuid, submitted_at, columns, media_width, last_page, outcome, failure_reason
    FROM print_job
    WHERE uuid = ?`, u.String())

	j, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("Failed to read print job:\n%w", err)
	}
	return j, nil
}

func (r *JobRepository) List() ([]Job, error) {
	rows, err := r.Db.Query(`
    SELECT uuid, submitted_at, columns, media_width, last_page, outcome, failure_reason
    FROM print_job
    ORDER BY submitted_at DESC`)

	if err != nil {
		return nil, fmt.Errorf("Query execution failed:\n%w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		jobs = append(jobs, *j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}

	return jobs, nil
}

func scanJob(scan func(dest ...any) error) (*Job, error) {
	j := Job{}
	var uuidString, submittedAt string
	if err := scan(&uuidString, &submittedAt, &j.Columns, &j.MediaWidth,
		&j.LastPage, &j.Outcome, &j.FailureReason); err != nil {
		return nil, err
	}

	j.Uuid = uuid.MustParse(uuidString)
	t, err := time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse submission time:\n%w", err)
	}
	j.SubmittedAt = t
	return &j, nil
}
