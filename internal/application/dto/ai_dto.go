package dto

// Tipos de correo soportados por la redacción asistida.
const (
	EmailOutreach      = "outreach"
	EmailNegotiation   = "negotiation"
	EmailFollowup      = "followup"
	EmailCollaboration = "collaboration"
	EmailThankYou      = "thank_you"
)

// EmailContextDTO datos con los que se arma el prompt del correo.
type EmailContextDTO struct {
	CreatorName     string   `json:"creator_name" validate:"required,max=200"`
	CreatorNiche    string   `json:"creator_niche" validate:"required,max=100"`
	BrandName       string   `json:"brand_name" validate:"required,max=200"`
	CampaignDetails string   `json:"campaign_details" validate:"omitempty,max=2000"`
	PreviousContext string   `json:"previous_context" validate:"omitempty,max=4000"`
	Tone            string   `json:"tone" validate:"omitempty,oneof=professional friendly casual formal"`
	KeyPoints       []string `json:"key_points" validate:"omitempty,max=20,dive,max=300"`
}

// EmailDraftRequest entrada para redactar un correo con IA.
type EmailDraftRequest struct {
	Type    string          `json:"type" validate:"required,oneof=outreach negotiation followup collaboration thank_you"`
	Context EmailContextDTO `json:"context"`
}

// EmailDraftResponse borrador generado (no se persiste).
type EmailDraftResponse struct {
	Email   string          `json:"email"`
	Type    string          `json:"type"`
	Context EmailContextDTO `json:"context"`
}

// SponsorshipReplyRequest entrada para responder una propuesta de patrocinio de un creator.
type SponsorshipReplyRequest struct {
	CreatorID     string `json:"creator_id" validate:"required"`
	EmailBody     string `json:"email_body" validate:"required,max=8000"`
	FollowerCount *int64 `json:"follower_count" validate:"omitempty,gt=0"`
}

// SponsorshipReplyResponse borrador de respuesta con la tarifa propuesta.
type SponsorshipReplyResponse struct {
	Email        string `json:"email"`
	ProposedRate string `json:"proposed_rate"`
}
