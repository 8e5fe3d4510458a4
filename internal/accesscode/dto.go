package accesscode

import (
	"time"

	"github.com/google/uuid"
)

type RedeemDTO struct {
	Code string `json:"code" binding:"required,len=6,alphanum"`
}

type RedeemResponse struct {
	Kind       Kind       `json:"kind"`
	CourseID   *uuid.UUID `json:"course_id,omitempty"`
	TrialLimit *time.Time `json:"test_limit,omitempty"`
}
