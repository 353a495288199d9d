package models

import "time"

// AccessRequest is a guest's request to attend the party.
// ApprovedAt is set exactly once, when the request transitions to approved.
type AccessRequest struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Instagram  string     `json:"instagram"`
	Approved   bool       `json:"approved"`
	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

// FullName returns the guest's display name
func (r *AccessRequest) FullName() string {
	return r.FirstName + " " + r.LastName
}

// RequestUpdate carries a partial edit of a request. Nil fields are left
// untouched; id, approved and approvedAt can never be changed through an edit.
type RequestUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Instagram *string `json:"instagram"`
}

// Empty reports whether the update carries no fields at all
func (u *RequestUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Instagram == nil
}
