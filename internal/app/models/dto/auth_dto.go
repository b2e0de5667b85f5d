package dto

// LoginRequest represents portal login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"ramshrestha101"`
	Password string `json:"password" binding:"required" example:"ramshrestha101"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"3600"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID       int64  `json:"id" example:"101"`
	Username string `json:"username" example:"ramshrestha101"`
	FullName string `json:"fullName" example:"Ram Shrestha"`
	Role     string `json:"role" example:"student"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
