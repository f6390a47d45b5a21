package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried by authenticated requests.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}
