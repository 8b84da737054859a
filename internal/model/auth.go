package model

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// Token is the /auth/token response. TokenType is always "bearer".
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
