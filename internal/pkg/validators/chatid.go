package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	numericChatID = regexp.MustCompile(`^-?[0-9]{1,20}$`)
	channelChatID = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_]{4,31}$`)
)

// ChatIDValidation accepts a numeric Telegram chat id (negative for groups)
// or a public @channel username.
func ChatIDValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return numericChatID.MatchString(value) || channelChatID.MatchString(value)
}
