// Package auth contiene DTOs para endpoints de autenticación local.
package auth

// LoginRequest es el body de POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest es el body de POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse es la respuesta de login exitoso.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"` // "Bearer"
}

// APIResponse es el sobre de éxito del signup.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
