package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"medpages/internal/data/entity"

	"go.uber.org/zap"
)

// Renderer writes the static HTML for a landing page under
// <outputDir>/<subdomain>/index.html, ready to be served by a web
// server or CDN keyed on the host header.
type Renderer struct {
	outputDir string
	tmpl      *template.Template
	log       *zap.Logger
}

func New(outputDir string, log *zap.Logger) (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	return &Renderer{
		outputDir: outputDir,
		tmpl:      tmpl,
		log:       log.With(zap.String("component", "render")),
	}, nil
}

// pageContent mirrors the JSON the content generator produces. Missing
// fields render empty rather than failing the page.
type pageContent struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	About       string `json:"about"`
	Services    []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"services"`
	CTA string `json:"cta"`
}

type pageVisibility struct {
	ShowServices  bool `json:"showServices"`
	ShowAddresses bool `json:"showAddresses"`
	ShowWhatsApp  bool `json:"showWhatsApp"`
}

type templateData struct {
	MetaTitle       string
	MetaDescription string
	Briefing        entity.Briefing
	Content         pageContent
	Visibility      pageVisibility
}

// Render writes the page to disk and returns the output path.
func (r *Renderer) Render(ctx context.Context, page *entity.LandingPage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page.Subdomain == "" {
		return "", fmt.Errorf("page %s has no subdomain", page.ID.String())
	}

	data := templateData{
		MetaTitle:       page.MetaTitle,
		MetaDescription: page.MetaDescription,
		Briefing:        page.Briefing,
		Visibility: pageVisibility{
			ShowServices:  true,
			ShowAddresses: true,
			ShowWhatsApp:  true,
		},
	}

	if data.MetaTitle == "" {
		data.MetaTitle = fmt.Sprintf("%s | %s", page.Briefing.Name, page.Briefing.Specialty)
	}

	if len(page.Content) > 0 {
		if err := json.Unmarshal(page.Content, &data.Content); err != nil {
			return "", fmt.Errorf("decode page content: %w", err)
		}
	}
	if len(page.Visibility) > 0 {
		if err := json.Unmarshal(page.Visibility, &data.Visibility); err != nil {
			return "", fmt.Errorf("decode page visibility: %w", err)
		}
	}

	dir := filepath.Join(r.outputDir, page.Subdomain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	outPath := filepath.Join(dir, "index.html")
	file, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if err := r.tmpl.Execute(file, data); err != nil {
		return "", fmt.Errorf("render page %s: %w", page.Subdomain, err)
	}

	r.log.Info("Rendered landing page",
		zap.String("subdomain", page.Subdomain),
		zap.String("path", outPath),
	)

	return outPath, nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.MetaTitle}}</title>
  <meta name="description" content="{{.MetaDescription}}">
</head>
<body>
  <header>
    <h1>{{if .Content.Headline}}{{.Content.Headline}}{{else}}{{.Briefing.Name}}{{end}}</h1>
    {{if .Content.Subheadline}}<p class="subheadline">{{.Content.Subheadline}}</p>{{end}}
    <p class="credentials">{{.Briefing.Specialty}} &middot; {{.Briefing.LicenseNumber}}/{{.Briefing.LicenseRegion}}</p>
  </header>

  {{if .Content.About}}
  <section id="sobre">
    <h2>Sobre</h2>
    <p>{{.Content.About}}</p>
  </section>
  {{end}}

  {{if and .Visibility.ShowServices .Content.Services}}
  <section id="servicos">
    <h2>Serviços</h2>
    <ul>
      {{range .Content.Services}}
      <li><strong>{{.Title}}</strong>{{if .Description}} &mdash; {{.Description}}{{end}}</li>
      {{end}}
    </ul>
  </section>
  {{end}}

  {{if and .Visibility.ShowAddresses .Briefing.Addresses}}
  <section id="enderecos">
    <h2>Endereços</h2>
    <ul>
      {{range .Briefing.Addresses}}
      <li>{{.Street}}, {{.City}} - {{.State}}{{if .Zip}}, {{.Zip}}{{end}}</li>
      {{end}}
    </ul>
  </section>
  {{end}}

  <section id="contato">
    <h2>Contato</h2>
    {{if .Briefing.Phone}}<p>Telefone: <a href="tel:{{.Briefing.Phone}}">{{.Briefing.Phone}}</a></p>{{end}}
    {{if and .Visibility.ShowWhatsApp .Briefing.WhatsApp}}<p><a href="https://wa.me/{{.Briefing.WhatsApp}}">WhatsApp</a></p>{{end}}
    {{if .Content.CTA}}<p class="cta">{{.Content.CTA}}</p>{{end}}
  </section>

  <footer>
    <p>{{.Briefing.Name}} &middot; {{.Briefing.LicenseNumber}}/{{.Briefing.LicenseRegion}}</p>
  </footer>
</body>
</html>
`
