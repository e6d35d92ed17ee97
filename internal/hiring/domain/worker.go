package domain

import "time"

// Availability states for a worker. A worker is hired while exactly
// one Active job references them; the flag is the engine-owned
// projection of that invariant.
const (
	AvailabilityFree  = "free"
	AvailabilityHired = "hired"
)

// Worker is a worker profile from the identity directory. The engine
// writes only Status and HiredBy.
type Worker struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Wallet    string    `db:"wallet" json:"wallet"`
	Location  string    `db:"location" json:"location"`
	WorkType  string    `db:"work_type" json:"work_type"`
	Bio       string    `db:"bio" json:"bio"`
	Status    string    `db:"status" json:"status"`
	HiredBy   *int64    `db:"hired_by" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Expanded from the employer back-reference when present.
	HiredByName  string `db:"hired_by_name" json:"hired_by_name,omitempty"`
	HiredByEmail string `db:"hired_by_email" json:"hired_by_email,omitempty"`
}

// Employer is an employer identity resolved by email at commit time.
// Read-only from the engine's perspective.
type Employer struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
