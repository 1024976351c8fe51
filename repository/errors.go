package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrDuplicateUser is returned when a user with the same email already exists.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateVote is returned when a vote for the same (track, user) pair
	// already exists. The voting service treats it as "already voted" and falls
	// through to the remove branch; it is never surfaced to clients.
	ErrDuplicateVote = errors.New("vote already exists")
)

const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a MySQL unique constraint violation.
func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
