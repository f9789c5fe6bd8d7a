package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"medpages/internal/data/entity"
	"medpages/internal/dto/request"

	"go.uber.org/zap"
)

var (
	ErrInvalidContentType = errors.New("invalid content request type")
	ErrMissingBriefing    = errors.New("briefing is required")
	ErrMissingInstruction = errors.New("instruction is required")
	ErrMalformedOutput    = errors.New("model returned malformed output")
)

// Compliance rules embedded in every prompt. These are enforced by asking
// the model, not by post-validation of its output.
const complianceRules = `Regras obrigatórias de conformidade para publicidade médica:
- Nunca use superlativos ("o melhor", "o mais experiente") nem prometa resultados ou garantias de cura.
- Não use depoimentos de pacientes nem comparações com outros profissionais.
- Chamadas para ação devem ser neutras ("Agende uma consulta", "Entre em contato"), nunca sensacionalistas.
- Sempre exiba o nome completo, a especialidade e o número de registro profissional exatamente como informados.
- Linguagem informativa e acolhedora, em português do Brasil.`

const generateSystemPrompt = `Você escreve o conteúdo de landing pages para profissionais de saúde.
Responda SOMENTE com um objeto JSON válido, sem texto antes ou depois, no formato:
{"content": {"headline": string, "subheadline": string, "about": string, "services": [{"title": string, "description": string}], "cta": string},
 "design": {"palette": string, "font": string, "layout": string},
 "visibility": {"showServices": bool, "showAddresses": bool, "showWhatsApp": bool},
 "meta": {"title": string, "description": string}}

` + complianceRules

const refineSystemPrompt = `Você ajusta o conteúdo de uma landing page médica existente conforme a instrução do usuário.
Altere apenas o que a instrução pedir e preserve o restante.
Responda SOMENTE com um objeto JSON válido contendo as chaves alteradas dentre "content", "design" e "visibility".

` + complianceRules

type llmClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type ContentService interface {
	Generate(ctx context.Context, req *request.GenerateContentRequest) (json.RawMessage, error)
}

type contentService struct {
	llm llmClient
	log *zap.Logger
}

func NewContentService(llm llmClient, log *zap.Logger) ContentService {
	return &contentService{
		llm: llm,
		log: log,
	}
}

func (s *contentService) Generate(ctx context.Context, req *request.GenerateContentRequest) (json.RawMessage, error) {
	var systemPrompt, userPrompt string

	switch req.Type {
	case request.ContentTypeGenerate:
		if req.Briefing == nil {
			return nil, ErrMissingBriefing
		}
		systemPrompt = generateSystemPrompt
		userPrompt = buildGeneratePrompt(req.Briefing)

	case request.ContentTypeRefine:
		if strings.TrimSpace(req.Instruction) == "" {
			return nil, ErrMissingInstruction
		}
		systemPrompt = refineSystemPrompt
		userPrompt = buildRefinePrompt(req)

	default:
		return nil, ErrInvalidContentType
	}

	raw, err := s.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		// Provider errors pass through typed; the handler decides the wire shape.
		return nil, err
	}

	cleaned := stripCodeFence(raw)

	// Parse to prove the model produced JSON; the object itself is returned
	// verbatim, no schema validation.
	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		s.log.Error("Model output is not valid JSON",
			zap.Error(err),
			zap.Int("response_len", len(raw)),
		)
		return nil, ErrMalformedOutput
	}

	return json.RawMessage(cleaned), nil
}

func buildGeneratePrompt(b *entity.Briefing) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Crie o conteúdo de uma landing page para o seguinte profissional:\n")
	fmt.Fprintf(&sb, "Nome: %s\n", b.Name)
	fmt.Fprintf(&sb, "Especialidade: %s\n", b.Specialty)
	fmt.Fprintf(&sb, "Registro profissional: %s/%s\n", b.LicenseNumber, b.LicenseRegion)
	if b.Phone != "" {
		fmt.Fprintf(&sb, "Telefone: %s\n", b.Phone)
	}
	if b.WhatsApp != "" {
		fmt.Fprintf(&sb, "WhatsApp: %s\n", b.WhatsApp)
	}
	if len(b.Services) > 0 {
		fmt.Fprintf(&sb, "Serviços oferecidos: %s\n", strings.Join(b.Services, ", "))
	}
	for _, addr := range b.Addresses {
		fmt.Fprintf(&sb, "Endereço: %s, %s - %s\n", addr.Street, addr.City, addr.State)
	}

	return sb.String()
}

func buildRefinePrompt(req *request.GenerateContentRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Instrução do usuário: %s\n\n", req.Instruction)
	if len(req.CurrentContent) > 0 {
		fmt.Fprintf(&sb, "Conteúdo atual:\n%s\n\n", req.CurrentContent)
	}
	if len(req.CurrentDesign) > 0 {
		fmt.Fprintf(&sb, "Design atual:\n%s\n\n", req.CurrentDesign)
	}
	if len(req.CurrentVisibility) > 0 {
		fmt.Fprintf(&sb, "Visibilidade atual:\n%s\n", req.CurrentVisibility)
	}

	return sb.String()
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag, from a model response.
func stripCodeFence(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}

	out = strings.TrimPrefix(out, "```")
	if idx := strings.Index(out, "\n"); idx >= 0 {
		// Drop a language tag like "json" on the fence line.
		firstLine := strings.TrimSpace(out[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			out = out[idx+1:]
		}
	}

	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
