package dto

import (
	"net/mail"
	"strings"
)

type RegisterRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName FullName `json:"fullname"`
}

type FullName struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FieldError is one entry of a structured 400 validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string           `json:"_id"`
	Email    string           `json:"email"`
	FullName FullNameResponse `json:"fullName"`
}

type FullNameResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email"})
	}
	if len(r.Password) < 2 {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 2 characters long"})
	}
	if len(r.FullName.FirstName) < 2 {
		errs = append(errs, FieldError{Field: "fullname.firstname", Message: "First name must be at least 2 characters long"})
	}
	return errs
}

func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}
	return errs
}
