package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUserGoal = errors.New("user already holds this goal")
	ErrUserGoalNotHeld   = errors.New("user does not hold this goal")
	ErrRatingOutOfRange  = errors.New("rating must be between 1 and 5")
)

// InvalidGoalIDsError reports which IDs in a replace request do not exist.
// No memberships are changed when it is returned.
type InvalidGoalIDsError struct {
	IDs []uuid.UUID
}

func (e *InvalidGoalIDsError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("unknown goal ids: %s", strings.Join(ids, ", "))
}
