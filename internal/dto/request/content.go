package request

import (
	"encoding/json"

	"medpages/internal/data/entity"
)

const (
	ContentTypeGenerate = "generate"
	ContentTypeRefine   = "refine"
)

type GenerateContentRequest struct {
	Type        string           `json:"type" validate:"required"`
	Briefing    *entity.Briefing `json:"briefing,omitempty"`
	Instruction string           `json:"instruction,omitempty"`

	// Current state echoed back to the model on refine requests.
	CurrentContent    json.RawMessage `json:"currentContent,omitempty"`
	CurrentDesign     json.RawMessage `json:"currentDesign,omitempty"`
	CurrentVisibility json.RawMessage `json:"currentVisibility,omitempty"`
}
