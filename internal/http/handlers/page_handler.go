package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/render"
	"github.com/ignatzorin/portfolio-backend/internal/skeleton"
)

// pageTmpl — каркас страницы портфолио. Секции без контента получают
// скелетон-заглушку с aria-атрибутами, живые обновления приходят по ws.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/assets/style.css">
</head>
<body{{if .ReducedMotion}} data-reduced-motion="true"{{end}}{{if .SaveData}} data-save-data="true"{{end}}>
<main>
{{if .CriticalFailure}}<div class="load-failure" role="alert">
<h1>Не удалось загрузить портфолио</h1>
<p>Проверьте подключение к сети и попробуйте ещё раз.</p>
<button data-action="retry">Повторить</button>
<a href="mailto:{{.ContactEmail}}" data-action="contact">Связаться напрямую</a>
</div>
{{else}}{{range .Sections}}<section class="section-{{.Name}}" data-section="{{.Name}}">
{{if .Loaded}}{{.HTML}}{{else}}<div class="skeleton" role="status" aria-busy="true" aria-live="polite" data-kind="{{.Kind}}"></div>{{end}}
</section>
{{end}}{{end}}</main>
<script src="/assets/app.js" defer></script>
</body>
</html>
`))

type pageSection struct {
	Name   string
	Loaded bool
	Kind   string
	HTML   template.HTML
}

// PageHandler отдаёт серверно отрендеренную страницу портфолио.
type PageHandler struct {
	store     *content.Store
	renderer  *render.Renderer
	skeletons *skeleton.Manager
}

// NewPageHandler создаёт хэндлер.
func NewPageHandler(store *content.Store, renderer *render.Renderer, skeletons *skeleton.Manager) *PageHandler {
	return &PageHandler{store: store, renderer: renderer, skeletons: skeletons}
}

// Index обрабатывает GET /.
func (h *PageHandler) Index(c *gin.Context) {
	snap := h.store.Snapshot()

	title := "Портфолио"
	if snap.Personal != nil && snap.Personal.Name != "" {
		title = snap.Personal.Name
	}

	sections := make([]pageSection, 0, len(models.SectionNames))
	failed := 0
	for _, name := range models.SectionNames {
		html := h.renderer.Populate(name, snap)
		kind := h.skeletons.FailureKind(name)
		if kind != "" {
			failed++
		}
		sections = append(sections, pageSection{
			Name:   name,
			Loaded: !h.skeletons.IsActive(name),
			Kind:   kind,
			HTML:   html,
		})
	}

	// Полноэкранная заглушка только при тотальном отказе первой загрузки;
	// частичные сбои остаются секционными error-скелетонами.
	critical := failed == len(sections)
	contactEmail := ""
	if snap.Personal != nil {
		contactEmail = snap.Personal.Email
	}

	// Client hints управляют только подсказками анимации на стороне страницы.
	hints := skeleton.FromHeader(c.Request.Header)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Accept-CH", "Sec-CH-Prefers-Reduced-Motion, Device-Memory")
	err := pageTmpl.Execute(c.Writer, gin.H{
		"Title":           title,
		"Sections":        sections,
		"ReducedMotion":   hints.ReducedMotion() || hints.LowEndDevice(),
		"SaveData":        hints.SaveData(),
		"CriticalFailure": critical,
		"ContactEmail":    contactEmail,
	})
	if err != nil {
		_ = c.Error(err)
	}
}
