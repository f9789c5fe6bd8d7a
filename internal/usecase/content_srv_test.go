package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"medpages/internal/data/entity"
	"medpages/internal/dto/request"
	"medpages/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	reply        string
	err          error
	systemPrompt string
	userPrompt   string
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	return f.reply, f.err
}

func testBriefing() *entity.Briefing {
	return &entity.Briefing{
		Name:          "Dr. Silva",
		Specialty:     "Cardiologia",
		LicenseNumber: "12345",
		LicenseRegion: "SP",
		Email:         "dr.silva@example.com",
		Services:      []string{"Consulta", "Ecocardiograma"},
	}
}

func TestGenerateReturnsModelJSON(t *testing.T) {
	llm := &fakeLLM{reply: `{"content":{"headline":"Dr. Silva"}}`}
	svc := NewContentService(llm, zap.NewNop())

	out, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
		Type:     request.ContentTypeGenerate,
		Briefing: testBriefing(),
	})
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Contains(t, parsed, "content")

	assert.Contains(t, llm.userPrompt, "Dr. Silva")
	assert.Contains(t, llm.userPrompt, "Cardiologia")
	assert.Contains(t, llm.userPrompt, "12345/SP")
	assert.Contains(t, llm.systemPrompt, "superlativos")
}

func TestGenerateStripsCodeFence(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n{\"content\":{}}\n```"}
	svc := NewContentService(llm, zap.NewNop())

	out, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
		Type:     request.ContentTypeGenerate,
		Briefing: testBriefing(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":{}}`, string(out))
}

func TestGenerateRequiresBriefing(t *testing.T) {
	svc := NewContentService(&fakeLLM{}, zap.NewNop())

	_, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
		Type: request.ContentTypeGenerate,
	})
	assert.ErrorIs(t, err, ErrMissingBriefing)
}

func TestRefineRequiresInstruction(t *testing.T) {
	svc := NewContentService(&fakeLLM{}, zap.NewNop())

	_, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
		Type:        request.ContentTypeRefine,
		Instruction: "   ",
	})
	assert.ErrorIs(t, err, ErrMissingInstruction)
}

func TestRefineEchoesCurrentState(t *testing.T) {
	llm := &fakeLLM{reply: `{"content":{"headline":"Novo"}}`}
	svc := NewContentService(llm, zap.NewNop())

	_, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
		Type:           request.ContentTypeRefine,
		Instruction:    "Deixe o título mais acolhedor",
		CurrentContent: json.RawMessage(`{"headline":"Antigo"}`),
	})
	require.NoError(t, err)

	assert.Contains(t, llm.userPrompt, "Deixe o título mais acolhedor")
	assert.Contains(t, llm.userPrompt, "Antigo")
}

func TestGenerateUnknownType(t *testing.T) {
	svc := NewContentService(&fakeLLM{}, zap.NewNop())

	_, err := svc.Generate(context.Background(), &request.GenerateContentRequest{Type: "rewrite"})
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestGenerateMalformedModelOutput(t *testing.T) {
	llm := &fakeLLM{reply: "Claro! Aqui está o conteúdo da sua página:"}
	svc := NewContentService(llm, zap.NewNop())

	_, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
		Type:     request.ContentTypeGenerate,
		Briefing: testBriefing(),
	})
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestGenerateProviderErrorsPassThrough(t *testing.T) {
	for _, sentinel := range []error{gateway.ErrRateLimited, gateway.ErrPaymentRequired, gateway.ErrUpstream} {
		svc := NewContentService(&fakeLLM{err: sentinel}, zap.NewNop())

		_, err := svc.Generate(context.Background(), &request.GenerateContentRequest{
			Type:     request.ContentTypeGenerate,
			Briefing: testBriefing(),
		})
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"fence glued to body", "```{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
