package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"mindcheck/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(r *model.Report) string {
		return r.CompletedAt.Format("2006/1/2")
	},
	"fixed1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"fixed2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"priority": func(p model.Priority) string {
		switch p {
		case model.PriorityHigh:
			return "高优先级"
		case model.PriorityMedium:
			return "中优先级"
		default:
			return "低优先级"
		}
	},
	"points": func(pts []model.Point) string {
		parts := make([]string, len(pts))
		for i, p := range pts {
			parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
		}
		return strings.Join(parts, " ")
	},
	"anchor": func(a model.Align) string {
		if a == model.AlignCenter {
			return "middle"
		}
		return string(a)
	},
}

// Renderer produces the print layout of a report
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report.html").Funcs(funcs).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the report as a standalone HTML page
func (r *Renderer) Render(w io.Writer, rep *model.Report) error {
	return r.tmpl.ExecuteTemplate(w, "report.html", rep)
}

// HTML renders the report into memory
func (r *Renderer) HTML(rep *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShareText is the message offered for manual copy when the browser has
// no share sheet
func ShareText(url string) string {
	return "我刚刚完成了心理健康测评，查看我的测评结果和建议！ " + url
}

// ShareURL links to the report view of an assessment type
func ShareURL(base, assessmentType string) string {
	return strings.TrimRight(base, "/") + "/report.html?type=" + assessmentType
}

// ExportName is the object name of an exported report
func ExportName(rep *model.Report) string {
	return fmt.Sprintf("reports/%s/%s.html", rep.ClientID, rep.ID)
}
