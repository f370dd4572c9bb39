package dto

type RegisterRequestDTO struct {
	Name     string `json:"name" example:"Wanjiru Kamau"`
	Email    string `json:"email" example:"wanjiru@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
	Phone    string `json:"phone,omitempty" example:"0712345678"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" example:"wanjiru@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

type AuthResponseDTO struct {
	Token string `json:"token"`
	ID    int    `json:"id" example:"1"`
	Name  string `json:"name" example:"Wanjiru Kamau"`
}

type CreateAdminDTO struct {
	Name     string
	Email    string
	Password string
}
