package identity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Form messages.
const (
	RequiredMessage          = "All fields are required."
	DuplicateUsernameMessage = "That username already exists. Try another."
	EmailMessage             = "Email address is invalid."
	AvatarMessage            = "Avatar URL is invalid."
	PasswordMessage          = "Password is too weak. Use at least 6 characters with a letter and a number."
	ConfirmMessage           = "Passwords do not match."
)

const minPasswordLength = 6

var looseEmail = regexp.MustCompile(`.+@.+\..+`)

// Registration is a submitted sign-up form.
type Registration struct {
	Username  string `json:"username" validate:"required"`
	FullName  string `json:"fullName" validate:"required"`
	Email     string `json:"email" validate:"required,loose_email"`
	AvatarURL string `json:"avatarUrl" validate:"required,url"`
	Password  string `json:"password" validate:"required,strong_password"`
	Confirm   string `json:"confirm" validate:"required,eqfield=Password"`
}

// Normalize trims surrounding whitespace from every field except the password pair.
func (r Registration) Normalize() Registration {
	r.Username = strings.TrimSpace(r.Username)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.AvatarURL = strings.TrimSpace(r.AvatarURL)
	return r
}

// User converts the form into a registration candidate.
func (r Registration) User() models.User {
	r = r.Normalize()
	return models.User{
		Username:  r.Username,
		FullName:  r.FullName,
		Email:     r.Email,
		AvatarURL: r.AvatarURL,
		Password:  r.Password,
	}
}

// Validate checks r and returns the first failure wrapped in [shared.ErrValidation].
func Validate(r Registration) error {
	r = r.Normalize()
	if err := validateRequired(r); err != nil {
		return err
	}
	return validateFormat(r)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
			return looseEmail.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
			return strongPassword(fl.Field().String())
		})
	})
	return validate
}

func validateRequired(r Registration) error {
	for _, v := range []string{r.Username, r.FullName, r.Email, r.AvatarURL, r.Password, r.Confirm} {
		if err := formValidator().Var(v, "required"); err != nil {
			return fmt.Errorf("%w: %s", shared.ErrValidation, RequiredMessage)
		}
	}
	return nil
}

func validateFormat(r Registration) error {
	err := formValidator().Struct(r)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrValidation, fieldError(ve[0]))
	}
	return fmt.Errorf("%w: %v", shared.ErrValidation, err)
}

// fieldError converts a single FieldError into the form message for that field.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return RequiredMessage
	case "loose_email":
		return EmailMessage
	case "url":
		return AvatarMessage
	case "strong_password":
		return PasswordMessage
	case "eqfield":
		return ConfirmMessage
	default:
		return fmt.Sprintf("%s failed validation (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}
}

// strongPassword requires at least six characters including an ASCII letter and a digit.
func strongPassword(p string) bool {
	if utf8.RuneCountInString(p) < minPasswordLength {
		return false
	}

	var letter, digit bool
	for _, c := range p {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		}
	}
	return letter && digit
}
