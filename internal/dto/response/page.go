package response

import (
	"encoding/json"
	"time"

	"medpages/internal/data/entity"
)

type PageResponse struct {
	ID              string          `json:"id"`
	Subdomain       string          `json:"subdomain"`
	Status          string          `json:"status"`
	Briefing        entity.Briefing `json:"briefing"`
	Content         json.RawMessage `json:"content,omitempty"`
	Design          json.RawMessage `json:"design,omitempty"`
	Visibility      json.RawMessage `json:"visibility,omitempty"`
	MetaTitle       string          `json:"meta_title"`
	MetaDescription string          `json:"meta_description"`
	PublishedAt     *time.Time      `json:"published_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type PageListResponse struct {
	Data []PageResponse `json:"data"`
}

type StatusUpdateResponse struct {
	Success bool `json:"success"`
}

func PageToResponse(page *entity.LandingPage) PageResponse {
	return PageResponse{
		ID:              page.ID.String(),
		Subdomain:       page.Subdomain,
		Status:          string(page.Status),
		Briefing:        page.Briefing,
		Content:         page.Content,
		Design:          page.Design,
		Visibility:      page.Visibility,
		MetaTitle:       page.MetaTitle,
		MetaDescription: page.MetaDescription,
		PublishedAt:     page.PublishedAt,
		CreatedAt:       page.CreatedAt,
		UpdatedAt:       page.UpdatedAt,
	}
}

func PagesToResponse(pages []entity.LandingPage) PageListResponse {
	out := PageListResponse{Data: make([]PageResponse, 0, len(pages))}
	for i := range pages {
		out.Data = append(out.Data, PageToResponse(&pages[i]))
	}
	return out
}
