package dto

type AuthRequestSubmit struct {
	Field    string `json:"field" validate:"required,oneof=cgpa semester branch tenthPercent twelfthPercent backlogs"`
	NewValue string `json:"new_value" validate:"required"`
}

type AuthRequestReject struct {
	Feedback string `json:"feedback"`
}
