package entities

import (
	"time"

	"npu-collective/sabha/internal/constants"
)

type User struct {
	ID            string               `db:"id"`
	Email         string               `db:"email"`
	Name          string               `db:"name"`
	Role          constants.Role       `db:"role"`
	Status        constants.UserStatus `db:"status"`
	EmailVerified bool                 `db:"email_verified"`
	PhoneNumber   *string              `db:"phone_number"`
	VillageName   *string              `db:"village_name"`
	LastLogin     *time.Time           `db:"last_login"`
	CreatedAt     time.Time            `db:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at"`
}
