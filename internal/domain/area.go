package domain

// IncidentArea is the department/incident-area catalog entry users are
// assigned to at registration and through profile updates.
type IncidentArea struct {
	AreaID string `json:"id" dynamodbav:"area_id"`
	Name   string `json:"name" dynamodbav:"name"`
	Enable bool   `json:"enable" dynamodbav:"enable"`
}

type IncidentAreaInput struct {
	Name   string `json:"name" validate:"required"`
	Enable *bool  `json:"enable"`
}
