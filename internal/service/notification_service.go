package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

// Notifier emails an evaluation report to a founder.
type Notifier interface {
	Send(ctx context.Context, to string, result model.EvaluationResult) error
	Provider() string
}

var reportTemplate = template.Must(template.New("report").Parse(`<h2>Pitch Deck Evaluation Report</h2>
<h3>{{.CompanyName}} - {{.Sector}}</h3>

<h4>Scores:</h4>
<ul>
{{- range .Scores}}
    <li>{{.Title}}: {{.Score}}/10</li>
{{- end}}
    <li><strong>Overall: {{.Overall}}/10</strong></li>
</ul>

<h4>Investment Decision: {{.Investible}}</h4>

<h4>Summary:</h4>
<p>{{.Summary}}</p>

<h4>Key Strengths:</h4>
<ul>
{{- range .KeyStrengths}}
    <li>{{.}}</li>
{{- end}}
</ul>

<h4>Key Concerns:</h4>
<ul>
{{- range .KeyConcerns}}
    <li>{{.}}</li>
{{- end}}
</ul>
`))

type reportScore struct {
	Title string
	Score float64
}

type reportView struct {
	CompanyName  string
	Sector       string
	Scores       []reportScore
	Overall      float64
	Investible   string
	Summary      string
	KeyStrengths []string
	KeyConcerns  []string
}

func reportSubject(result model.EvaluationResult) string {
	return "Pitch Deck Evaluation - " + result.CompanyName
}

func renderReport(result model.EvaluationResult) (string, error) {
	view := reportView{
		CompanyName:  result.CompanyName,
		Sector:       result.Sector,
		Overall:      result.Scores[model.OverallKey],
		Investible:   result.Investible,
		Summary:      result.Summary,
		KeyStrengths: result.KeyStrengths,
		KeyConcerns:  result.KeyConcerns,
	}
	for _, c := range model.Categories {
		view.Scores = append(view.Scores, reportScore{Title: c.Title, Score: result.Scores[c.Key]})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
