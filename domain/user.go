package domain

// User is a back-office account. The password hash is write-only and never
// selected back out of the table.
type User struct {
	UserID     string `db:"user_id" json:"user_id"`
	Department string `db:"user_department" json:"user_department"`
	Type       string `db:"user_type" json:"user_type"`
	Status     string `db:"user_status" json:"user_status"`
}
