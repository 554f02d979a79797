package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"blog-backend/internal/domains/user/model"
)

// CreateUserRequest is the wire form for POST /users.
// The password is accepted here and never emitted anywhere.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 50),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
}

// UpdateUserRequest is the wire form for PUT /users/:id. Pointer fields
// distinguish "absent" from "set to zero value"; only supplied fields
// are validated and applied.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.When(r.Username != nil,
				validation.Required.Error("username cannot be empty"),
				validation.Length(1, 50),
			),
		),
		validation.Field(&r.Email,
			validation.When(r.Email != nil,
				validation.Required.Error("email cannot be empty"),
				is.Email.Error("invalid email format"),
			),
		),
		validation.Field(&r.Password,
			validation.When(r.Password != nil,
				validation.Required.Error("password cannot be empty"),
			),
		),
	)
}

// ToPatch converts the request into the typed merge structure applied
// by the repository.
func (r UpdateUserRequest) ToPatch() model.UserPatch {
	return model.UserPatch{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// UserDTO is the public user representation. No password field exists
// on it, so the password cannot leak through serialization.
type UserDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserDTOs(users []model.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, NewUserDTO(&users[i]))
	}
	return dtos
}

// ListUsersRequest carries pagination query params.
type ListUsersRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// TokenRequest is the credential payload for POST /token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshTokenRequest is the payload for POST /token/refresh.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required),
	)
}

// TokenResponse mirrors the usual simple-JWT token pair shape.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
