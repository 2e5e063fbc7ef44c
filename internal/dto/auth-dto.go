package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone,omitempty"`

	// Academic profile, captured at onboarding.
	Course         string  `json:"course" validate:"required"`
	Branch         string  `json:"branch" validate:"required"`
	CGPA           float64 `json:"cgpa" validate:"gte=0,lte=10"`
	TenthPercent   float64 `json:"tenth_percent" validate:"gte=30,lte=100"`
	TwelfthPercent float64 `json:"twelfth_percent" validate:"gte=30,lte=100"`
	Semester       int     `json:"semester" validate:"gte=1,lte=10"`
	Backlogs       int     `json:"backlogs" validate:"gte=0"`
	GapYears       int     `json:"gap_years" validate:"gte=0"`
	PassingYear    int     `json:"passing_year"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	UserID int     `json:"user_id"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Iat    float64 `json:"iat"`
	Expiry float64 `json:"expiry"`
}
