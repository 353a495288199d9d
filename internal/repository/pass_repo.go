package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"terracepass/internal/database"
	"terracepass/internal/models"
)

type PassRepository struct {
	db *database.DB
}

func NewPassRepository(db *database.DB) *PassRepository {
	return &PassRepository{db: db}
}

// GetByToken retrieves a pass by its token string
func (r *PassRepository) GetByToken(tokenString string) (*models.Pass, error) {
	return scanPass(r.db.QueryRow(
		`SELECT id, token, request_id, used, used_at, created_at FROM passes WHERE token = ?`,
		tokenString))
}

// GetByRequestID retrieves the pass minted for a request, if any
func (r *PassRepository) GetByRequestID(requestID string) (*models.Pass, error) {
	return scanPass(r.db.QueryRow(
		`SELECT id, token, request_id, used, used_at, created_at FROM passes WHERE request_id = ?`,
		requestID))
}

// GetWithRequest looks up a pass and its owning request in one read.
// A pass whose request has been deleted is an orphan and reported as
// ErrNotFound, the same as an unknown token.
func (r *PassRepository) GetWithRequest(tokenString string) (*models.Pass, *models.AccessRequest, error) {
	row := r.db.QueryRow(passWithRequestQuery, tokenString)
	return scanPassWithRequest(row)
}

// Redeem consumes a pass: the unused check and the used flip happen as one
// conditional UPDATE inside a transaction, so N concurrent redeems of the same
// token produce exactly one confirmed outcome. The others observe the pass as
// used with its original usedAt. Orphaned and unknown tokens return
// ErrNotFound without consuming anything.
func (r *PassRepository) Redeem(tokenString string) (*models.Pass, *models.AccessRequest, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to begin redeem: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	result, err := tx.Exec(
		`UPDATE passes SET used = ?, used_at = ? WHERE token = ? AND used = ?`,
		true, now, tokenString, false)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to redeem pass: %w", err)
	}
	consumed, err := result.RowsAffected()
	if err != nil {
		return nil, nil, false, err
	}

	pass, request, err := scanPassWithRequest(tx.QueryRow(passWithRequestQuery, tokenString))
	if err != nil {
		// Unknown token, or an orphan: roll back so an orphaned pass is not
		// consumed by the failed attempt.
		return nil, nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, false, fmt.Errorf("failed to commit redeem: %w", err)
	}

	return pass, request, consumed == 1, nil
}

const passWithRequestQuery = `
	SELECT p.id, p.token, p.request_id, p.used, p.used_at, p.created_at,
		r.id, r.first_name, r.last_name, r.email, r.instagram, r.approved, r.created_at, r.approved_at
	FROM passes p
	LEFT JOIN access_requests r ON p.request_id = r.id
	WHERE p.token = ?
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPass(row rowScanner) (*models.Pass, error) {
	var pass models.Pass
	var usedAt sql.NullTime

	err := row.Scan(&pass.ID, &pass.Token, &pass.RequestID, &pass.Used, &usedAt, &pass.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		pass.UsedAt = &t
	}
	return &pass, nil
}

func scanPassWithRequest(row rowScanner) (*models.Pass, *models.AccessRequest, error) {
	var pass models.Pass
	var usedAt sql.NullTime
	var reqID, firstName, lastName, email, instagram sql.NullString
	var approved sql.NullBool
	var createdAt, approvedAt sql.NullTime

	err := row.Scan(&pass.ID, &pass.Token, &pass.RequestID, &pass.Used, &usedAt, &pass.CreatedAt,
		&reqID, &firstName, &lastName, &email, &instagram, &approved, &createdAt, &approvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		pass.UsedAt = &t
	}

	// Orphaned pass: the owning request is gone
	if !reqID.Valid {
		return nil, nil, ErrNotFound
	}

	request := &models.AccessRequest{
		ID:        reqID.String,
		FirstName: firstName.String,
		LastName:  lastName.String,
		Email:     email.String,
		Instagram: instagram.String,
		Approved:  approved.Bool,
		CreatedAt: createdAt.Time,
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		request.ApprovedAt = &t
	}

	return &pass, request, nil
}
