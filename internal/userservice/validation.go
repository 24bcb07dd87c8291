package userservice

import (
	"regexp"

	"github.com/sushihentaime/samyati/internal/common"
)

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validateSubject(v *common.Validator, subject string) {
	v.Check(subject != "", "clerkId", "must be provided")
	v.Check(v.CheckStringLength(subject, 1, 255), "clerkId", "must not be longer than 255 characters")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(v.CheckStringLength(username, 1, 50), "username", "must not be longer than 50 characters")
}

func validateRole(v *common.Validator, role Role) {
	v.Check(common.PermittedValue(role, RoleUser, RoleAuthor, RoleAdmin), "role", "must be one of user, author, or admin")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
