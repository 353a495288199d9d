package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"terracepass/internal/database"
	"terracepass/internal/models"
)

// ErrNotFound is returned when an operation targets a request or pass that
// does not exist.
var ErrNotFound = errors.New("not found")

type RequestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new pending access request and assigns its identity
func (r *RequestRepository) Create(firstName, lastName, email, instagram string) (*models.AccessRequest, error) {
	request := &models.AccessRequest{
		ID:        uuid.New().String(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Instagram: instagram,
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO access_requests (id, first_name, last_name, email, instagram, approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, request.ID, request.FirstName, request.LastName,
		request.Email, request.Instagram, request.Approved, request.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}

	return request, nil
}

// GetByID retrieves a request by its identity
func (r *RequestRepository) GetByID(id string) (*models.AccessRequest, error) {
	query := `SELECT id, first_name, last_name, email, instagram, approved, created_at, approved_at
		FROM access_requests WHERE id = ?`
	return scanRequest(r.db.QueryRow(query, id))
}

// GetAll retrieves all requests, newest first
func (r *RequestRepository) GetAll() ([]models.AccessRequest, error) {
	query := `SELECT id, first_name, last_name, email, instagram, approved, created_at, approved_at
		FROM access_requests ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.AccessRequest
	for rows.Next() {
		var req models.AccessRequest
		var approvedAt sql.NullTime

		err := rows.Scan(&req.ID, &req.FirstName, &req.LastName, &req.Email,
			&req.Instagram, &req.Approved, &req.CreatedAt, &approvedAt)
		if err != nil {
			return nil, err
		}
		if approvedAt.Valid {
			t := approvedAt.Time
			req.ApprovedAt = &t
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Update applies a partial edit to a request. The UPDATE sets only the columns
// present in the update, so concurrent edits to different fields never clobber
// each other; identity and approval state are never touched.
func (r *RequestRepository) Update(id string, update *models.RequestUpdate) (*models.AccessRequest, error) {
	var setClauses []string
	var args []interface{}

	if update.FirstName != nil {
		setClauses = append(setClauses, "first_name = ?")
		args = append(args, *update.FirstName)
	}
	if update.LastName != nil {
		setClauses = append(setClauses, "last_name = ?")
		args = append(args, *update.LastName)
	}
	if update.Email != nil {
		setClauses = append(setClauses, "email = ?")
		args = append(args, *update.Email)
	}
	if update.Instagram != nil {
		setClauses = append(setClauses, "instagram = ?")
		args = append(args, *update.Instagram)
	}

	if len(setClauses) == 0 {
		return r.GetByID(id)
	}

	query := "UPDATE access_requests SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	args = append(args, id)

	if _, err := r.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update access request: %w", err)
	}

	// MySQL reports zero affected rows for a no-op value rewrite, so a read
	// distinguishes missing from unchanged
	return r.GetByID(id)
}

// Delete removes a request. Any pass minted for it is left behind as an
// orphan; the gate reports orphaned passes as not found.
func (r *RequestRepository) Delete(id string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM access_requests WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete access request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Approve flips a pending request to approved and mints its pass as a single
// transaction. Calling it again for an already-approved request returns the
// existing pass and reports minted=false; it never creates a second pass.
// The conditional UPDATE is the serialization point: of two concurrent calls
// only one sees a row flip, and the unique index on passes(request_id)
// backstops the one-pass-per-request invariant.
func (r *RequestRepository) Approve(id, tokenString string) (*models.AccessRequest, *models.Pass, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to begin approval: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	result, err := tx.Exec(
		`UPDATE access_requests SET approved = ?, approved_at = ? WHERE id = ? AND approved = ?`,
		true, now, id, false)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to approve request: %w", err)
	}
	flipped, err := result.RowsAffected()
	if err != nil {
		return nil, nil, false, err
	}

	request, err := scanRequest(tx.QueryRow(
		`SELECT id, first_name, last_name, email, instagram, approved, created_at, approved_at
			FROM access_requests WHERE id = ?`, id))
	if err != nil {
		return nil, nil, false, err
	}

	minted := false
	var pass *models.Pass

	if flipped == 1 {
		pass, err = insertPass(tx, tokenString, id, now)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to mint pass: %w", err)
		}
		minted = true
	} else {
		// Already approved: hand back the existing pass. A missing pass here
		// means a legacy dual-write was interrupted, so mint the absent half.
		pass, err = scanPass(tx.QueryRow(
			`SELECT id, token, request_id, used, used_at, created_at FROM passes WHERE request_id = ?`, id))
		if errors.Is(err, ErrNotFound) {
			pass, err = insertPass(tx, tokenString, id, now)
			minted = true
		}
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to load pass: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, false, fmt.Errorf("failed to commit approval: %w", err)
	}

	return request, pass, minted, nil
}

func insertPass(tx database.DBTX, tokenString, requestID string, now time.Time) (*models.Pass, error) {
	id, err := tx.ExecReturningID(
		`INSERT INTO passes (token, request_id, used, created_at) VALUES (?, ?, ?, ?)`,
		tokenString, requestID, false, now)
	if err != nil {
		return nil, err
	}
	return &models.Pass{
		ID:        id,
		Token:     tokenString,
		RequestID: requestID,
		Used:      false,
		CreatedAt: now,
	}, nil
}

func scanRequest(row *sql.Row) (*models.AccessRequest, error) {
	var req models.AccessRequest
	var approvedAt sql.NullTime

	err := row.Scan(&req.ID, &req.FirstName, &req.LastName, &req.Email,
		&req.Instagram, &req.Approved, &req.CreatedAt, &approvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		req.ApprovedAt = &t
	}
	return &req, nil
}
