package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/lodge-realestate-site/internal/leads"
	"github.com/wolfman30/lodge-realestate-site/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ModalSeenKey is the localStorage key recording that a visitor dismissed
// the first-visit lead modal.
const ModalSeenKey = "lodge_seen_modal_v1"

// Config is the immutable presentation configuration, read once at startup.
type Config struct {
	SiteName    string
	AgentName   string
	CalendarURL string
	ReviewsURL  string
}

type infoCard struct {
	Title  string
	Body   string
	Anchor string
}

type pageData struct {
	Site          Config
	Year          int
	LastUpdated   string
	HoneypotField string
	ModalSeenKey  string

	Tagline          string
	Areas            []string
	BedOptions       []string
	BathOptions      []string
	PropertyTypes    []string
	Timelines        []string
	FinancingOptions []string
	InfoCards        []infoCard
}

// Handler renders the marketing pages.
type Handler struct {
	cfg     Config
	home    *template.Template
	privacy *template.Template
	static  http.Handler
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler parses the embedded page templates.
func NewHandler(cfg Config, logger *logging.Logger) (*Handler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	home, err := template.ParseFS(templateFS, "templates/layout.html", "templates/home.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse home template: %w", err)
	}
	privacy, err := template.ParseFS(templateFS, "templates/layout.html", "templates/privacy.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse privacy template: %w", err)
	}
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("site: static assets: %w", err)
	}
	return &Handler{
		cfg:     cfg,
		home:    home,
		privacy: privacy,
		static:  http.StripPrefix("/static/", http.FileServer(http.FS(assets))),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Routes mounts the pages and their static assets.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/privacy", h.Privacy)
	r.Handle("/static/*", h.static)
	return r
}

// Home renders the landing page with both lead capture forms.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.basePage()
	data.Tagline = "Luxury-level guidance for Worcester County, MetroWest, Greater Boston, and the South Shore."
	data.Areas = []string{"Worcester County", "MetroWest", "Greater Boston", "South Shore"}
	data.BedOptions = []string{"1", "2", "3", "4", "5"}
	data.BathOptions = []string{"1", "2", "3"}
	data.PropertyTypes = []string{"Any", "Single Family", "Condo", "Multi-Family", "Land"}
	data.Timelines = []string{"0–3 months", "3–6 months", "6–12 months", "Just researching"}
	data.FinancingOptions = []string{"Not sure", "Pre-approved", "Need a lender", "Cash"}
	data.InfoCards = []infoCard{
		{Title: "Buyer Guidance", Body: "Strategy, neighborhoods, and sharp offers — with calm communication.", Anchor: "buyers"},
		{Title: "Seller Results", Body: "Pricing and prep that attracts serious buyers — not just showings.", Anchor: "sellers"},
		{Title: "Investor Focus", Body: "Buy-box clarity, deal triage, and underwriting support.", Anchor: "investors"},
	}
	h.render(w, h.home, data)
}

// Privacy renders the privacy policy.
func (h *Handler) Privacy(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.privacy, h.basePage())
}

func (h *Handler) basePage() pageData {
	now := h.now()
	return pageData{
		Site:          h.cfg,
		Year:          now.Year(),
		LastUpdated:   now.Format("January 2, 2006"),
		HoneypotField: leads.HoneypotField,
		ModalSeenKey:  ModalSeenKey,
	}
}

// render buffers the page so a template error never leaves a half-written
// 200 response.
func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
