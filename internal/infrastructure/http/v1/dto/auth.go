package dto

// LoginRequest for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued opaque access token.
type LoginResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}
