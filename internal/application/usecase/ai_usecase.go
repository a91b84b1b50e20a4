package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/application/validation"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

const (
	defaultAITimeout = 30 * time.Second
	defaultTone      = "professional"

	emailSystemPrompt       = "You are a professional talent manager with expertise in influencer marketing communications."
	sponsorshipSystemPrompt = "You are a professional talent manager with expertise in influencer marketing."
)

// AIUseCase redacción asistida de correos. Solo lee; nunca escribe en la BD.
type AIUseCase struct {
	llm      ports.LLMService
	resolver *auth.IdentityResolver
	guard    *access.Guard
	timeout  time.Duration
}

// NewAIUseCase construye el caso de uso. timeout <= 0 usa 30s.
func NewAIUseCase(llm ports.LLMService, resolver *auth.IdentityResolver, guard *access.Guard, timeout time.Duration) *AIUseCase {
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &AIUseCase{llm: llm, resolver: resolver, guard: guard, timeout: timeout}
}

// DraftEmail genera un borrador según el tipo de correo y el contexto dado.
func (uc *AIUseCase) DraftEmail(ctx context.Context, principal string, in dto.EmailDraftRequest) (*dto.EmailDraftResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	if in.Context.Tone == "" {
		in.Context.Tone = defaultTone
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	text, err := uc.draft(ctx, emailSystemPrompt, BuildEmailPrompt(in.Type, in.Context))
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Str("type", in.Type).Msg("fallo al redactar correo")
		return nil, err
	}
	return &dto.EmailDraftResponse{Email: text, Type: in.Type, Context: in.Context}, nil
}

// DraftSponsorshipReply redacta la respuesta a una propuesta de patrocinio para un
// creator de la agencia del usuario, con la tarifa calculada a partir de su base_rate.
func (uc *AIUseCase) DraftSponsorshipReply(ctx context.Context, principal string, in dto.SponsorshipReplyRequest) (*dto.SponsorshipReplyResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	creator, err := uc.guard.AuthorizeCreator(ctx, user, in.CreatorID)
	if err != nil {
		return nil, err
	}
	rate := ProposedRate(creator.BaseRate, in.FollowerCount)
	text, err := uc.draft(ctx, sponsorshipSystemPrompt, BuildSponsorshipPrompt(in.EmailBody, creator, rate))
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Str("creator_id", creator.ID).Msg("fallo al redactar respuesta de patrocinio")
		return nil, err
	}
	return &dto.SponsorshipReplyResponse{Email: text, ProposedRate: rate}, nil
}

// draft llama al LLM con timeout. Cualquier fallo se reporta como ErrUpstream.
func (uc *AIUseCase) draft(ctx context.Context, system, prompt string) (string, error) {
	if uc.llm == nil {
		return "", fmt.Errorf("%w: proveedor de IA no configurado", domain.ErrUpstream)
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	text, err := uc.llm.Draft(ctx, system, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", domain.ErrUpstream, context.DeadlineExceeded)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: respuesta vacía", domain.ErrUpstream)
	}
	return text, nil
}

// BuildEmailPrompt arma el prompt del correo según su tipo.
func BuildEmailPrompt(emailType string, c dto.EmailContextDTO) string {
	tone := c.Tone
	if tone == "" {
		tone = defaultTone
	}
	var b strings.Builder
	switch emailType {
	case dto.EmailOutreach:
		fmt.Fprintf(&b, "Draft a professional outreach email to %s introducing %s, a %s content creator. The email should be %s and highlight the creator's strengths and potential collaboration opportunities.",
			c.BrandName, c.CreatorName, c.CreatorNiche, tone)
	case dto.EmailNegotiation:
		fmt.Fprintf(&b, "Draft a professional negotiation email for %s (%s creator) to %s. The email should be %s and focus on terms, rates, and deliverables.",
			c.CreatorName, c.CreatorNiche, c.BrandName, tone)
	case dto.EmailFollowup:
		prev := c.PreviousContext
		if prev == "" {
			prev = "Previous communication about potential collaboration"
		}
		fmt.Fprintf(&b, "Draft a follow-up email for %s to %s. Previous context: %s. The tone should be %s and politely check on the status.",
			c.CreatorName, c.BrandName, prev, tone)
	case dto.EmailCollaboration:
		details := c.CampaignDetails
		if details == "" {
			details = "Brand partnership"
		}
		fmt.Fprintf(&b, "Draft a collaboration proposal email from %s (%s creator) to %s. Campaign details: %s. The tone should be %s and include specific collaboration ideas.",
			c.CreatorName, c.CreatorNiche, c.BrandName, details, tone)
	case dto.EmailThankYou:
		fmt.Fprintf(&b, "Draft a thank you email from %s to %s after a successful collaboration. The tone should be %s and express gratitude while leaving the door open for future partnerships.",
			c.CreatorName, c.BrandName, tone)
	}
	if len(c.KeyPoints) > 0 {
		fmt.Fprintf(&b, " Make sure to include these key points: %s.", strings.Join(c.KeyPoints, ", "))
	}
	b.WriteString(" Include a subject line. Format the response as a professional email.")
	return b.String()
}

// ProposedRate calcula round(base_rate * followers / 1000). Sin alguno de los dos datos
// la tarifa queda por definir.
func ProposedRate(baseRate *decimal.Decimal, followers *int64) string {
	if baseRate == nil || followers == nil || *followers <= 0 || !baseRate.IsPositive() {
		return "$X (to be determined based on deliverables)"
	}
	rate := baseRate.Mul(decimal.NewFromInt(*followers)).Div(decimal.NewFromInt(1000)).Round(0)
	return "$" + rate.String()
}

// BuildSponsorshipPrompt arma el prompt de respuesta a una propuesta de patrocinio.
func BuildSponsorshipPrompt(emailBody string, creator *entity.Creator, rate string) string {
	return fmt.Sprintf(`You are a professional talent manager. Draft a polite and professional reply to this sponsorship inquiry:

%q

For creator: %s
Proposed rate: %s

Guidelines:
- Be professional and enthusiastic
- Express interest in collaboration
- Mention our rate structure
- Ask for specific deliverables and timeline
- Keep it under 150 words
- Don't sound overly eager

Format as a professional email.`, emailBody, creator.Name, rate)
}
