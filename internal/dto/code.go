package dto

// AccessCodeDTO represents a data transfer object (DTO) for a freshly issued access code.
type AccessCodeDTO struct {
	AccessCode string `json:"access_code"`
}

// KnockWithCodeDTO represents a data transfer object (DTO) for a knock request.
type KnockWithCodeDTO struct {
	AccessCode string `json:"access_code"`
}

// KnockResultDTO represents a data transfer object (DTO) for the outcome of a knock request.
type KnockResultDTO struct {
	Message string   `json:"message"`
	Rooms   []string `json:"rooms"`
}
