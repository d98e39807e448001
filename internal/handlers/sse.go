package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sellerwave/internal/services"
)

const maxTableRows = 50

var growthTableTemplate = template.Must(template.New("growthTable").Parse(`
<div id="{{.ID}}-content">
{{if .Section.Error}}<p class="table-note">{{.Section.Error}}</p>{{else}}<table class="modern-table">
<thead><tr><th>#</th><th>Product</th>{{range .Section.Months}}<th>{{.}}</th>{{end}}<th>Growth</th></tr></thead>
<tbody>
{{range $i, $row := .Section.Rows}}{{if lt $i $.MaxRows}}<tr>
<td>{{.Rank}}</td>
<td>{{.ProductName}}</td>
{{range .Quantities}}<td>{{.}}</td>{{end}}
<td><strong>{{printf "%.1f" .Growth}}</strong></td>
</tr>{{end}}{{end}}
</tbody>
</table>{{end}}
</div>`))

type SSEHandlers struct {
	reports *services.Reports
	logger  *slog.Logger
}

func NewSSEHandlers(reports *services.Reports, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		reports: reports,
		logger:  logger,
	}
}

type growthTableData struct {
	ID      string
	Section services.GrowthSection
	MaxRows int
}

func (h *SSEHandlers) renderGrowthTable(id string, section services.GrowthSection) (string, error) {
	var buf strings.Builder

	data := growthTableData{ID: id, Section: section, MaxRows: maxTableRows}
	err := growthTableTemplate.Execute(&buf, data)
	return buf.String(), err
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := h.reports.Dashboard(r.Context())

	html, err := h.renderGrowthTable("growth", view.ThreeMonthGrowth)
	if err != nil {
		h.logger.Error("render growth table", "error", err)
		return
	}
	sse.PatchElements(html)

	jsonData, err := json.Marshal(map[string]any{
		"categoryData":  view.CategoryDistribution,
		"quantityData":  view.QuantityByCategory,
		"ratingData":    view.QuantityByRating,
		"priceBandData": view.QuantityByPriceBand,
		"topProducts":   view.TopProducts,
		"highSales":     view.HighSales,
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleDecision(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := h.reports.Decision(r.Context())

	tables := []struct {
		id      string
		section services.GrowthSection
	}{
		{"positive", view.PositiveGrowth},
		{"risers", view.SteadyRisers},
	}
	for _, t := range tables {
		html, err := h.renderGrowthTable(t.id, t.section)
		if err != nil {
			h.logger.Error("render growth table", "id", t.id, "error", err)
			return
		}
		sse.PatchElements(html)
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleExplore(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := h.reports.Explore(r.Context())

	tables := []struct {
		id      string
		section services.GrowthSection
	}{
		{"three-month", view.ThreeMonthSales},
		{"monotonic", view.MonotonicGrowth},
		{"two-month", view.TwoMonthSales},
		{"two-growth", view.TwoMonthGrowth},
		{"delta", view.LastVsThirdLast},
		{"negative", view.NegativeGrowth},
	}
	for _, t := range tables {
		html, err := h.renderGrowthTable(t.id, t.section)
		if err != nil {
			h.logger.Error("render growth table", "id", t.id, "error", err)
			return
		}
		sse.PatchElements(html)
	}

	jsonData, err := json.Marshal(map[string]any{
		"careListings": view.CareListings,
	})
	if err != nil {
		h.logger.Error("marshal explore signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	dashboard := h.reports.Dashboard(r.Context())

	html, err := h.renderGrowthTable("growth", dashboard.ThreeMonthGrowth)
	if err != nil {
		h.logger.Error("render growth table", "error", err)
		return
	}
	sse.PatchElements(html)

	decision := h.reports.Decision(r.Context())
	explore := h.reports.Explore(r.Context())

	// Send all signals in one call
	allSignals, err := json.Marshal(map[string]any{
		"categoryData":  dashboard.CategoryDistribution,
		"quantityData":  dashboard.QuantityByCategory,
		"ratingData":    dashboard.QuantityByRating,
		"priceBandData": dashboard.QuantityByPriceBand,
		"topProducts":   dashboard.TopProducts,
		"highSales":     dashboard.HighSales,
		"decisionData":  decision,
		"careListings":  explore.CareListings,
	})
	if err != nil {
		h.logger.Error("marshal all signals data", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
