package render

import (
	"bytes"
	"html/template"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/skeleton"
)

// Шаблоны секций. html/template экранирует весь пользовательский текст,
// поэтому содержимое документов безопасно вставлять напрямую.
var sectionTmpl = template.Must(template.New("sections").Funcs(template.FuncMap{
	"categoryLabel": CategoryLabel,
	"dateRange":     DateRange,
}).Parse(`
{{define "about"}}<div class="about-text">{{range .Bio}}<p>{{.}}</p>{{end}}</div>
<ul class="social-list">{{range .SocialLinks}}<li class="social-item"><a href="{{.URL}}" class="social-link" target="_blank" rel="noopener noreferrer"><ion-icon name="{{.Icon}}"></ion-icon></a></li>{{end}}</ul>{{end}}

{{define "services"}}{{range .}}<li class="service-item"><div class="service-icon-box"><img src="{{.Icon}}" alt="{{.Title}}" width="40"></div><div class="service-content-box"><h4 class="h4 service-item-title">{{.Title}}</h4><p class="service-item-text">{{.Description}}</p></div></li>{{end}}{{end}}

{{define "awards"}}{{range .}}<li class="awards-item"><img src="{{.Image}}" alt="{{.Title}}" class="{{.ImageClass}}"><h4 class="h4 awards-item-title">{{.Title}}</h4><p class="awards-item-text">{{.Description}}</p></li>{{end}}{{end}}

{{define "skills"}}<ul class="skills-list">{{range .AboutSkills}}<li class="skills-item">{{.}}</li>{{end}}</ul>
<ul class="skills-list resume-skills">{{range .ResumeSkills}}<li class="skills-item">{{.}}</li>{{end}}</ul>{{end}}

{{define "experience"}}{{range .}}<li class="timeline-item"><h4 class="h4 timeline-item-title">{{.Position}} — {{.Company}}</h4><span>{{dateRange .StartDate .EndDate}}</span>{{if .Achievements}}<ul class="timeline-text">{{range .Achievements}}<li>{{.}}</li>{{end}}</ul>{{end}}</li>{{end}}{{end}}

{{define "education"}}{{range .}}<li class="timeline-item"><h4 class="h4 timeline-item-title">{{.Institution}}</h4><span>{{.Degree}} &middot; {{.Period}}</span>{{if .Courses}}<ul class="timeline-text">{{range .Courses}}<li>{{.}}</li>{{end}}</ul>{{end}}</li>{{end}}{{end}}

{{define "certifications"}}{{range .}}<li class="certification-item"><img src="{{.Image}}" alt="{{.Name}}" class="{{.ImageClass}}"><h4 class="h4">{{.Name}}</h4><p>{{.Issuer}} &middot; {{.IssueDate}}</p><span class="credential-id">{{.CredentialID}}</span></li>{{end}}{{end}}

{{define "projects"}}{{range .}}<li class="project-item{{if .Featured}} featured{{end}}" data-category="{{.Category}}"><a href="{{.URL}}"><figure class="project-img"><img src="{{.Image}}" alt="{{.Title}}" loading="lazy"></figure><h3 class="project-title">{{.Title}}</h3><p class="project-category">{{categoryLabel .Category}}</p></a></li>{{end}}{{end}}

{{define "blog"}}{{range .}}<li class="blog-post-item"><a href="{{.URL}}"><figure class="blog-banner-box"><img src="{{.Image}}" alt="{{.Title}}" loading="lazy"></figure><div class="blog-content"><div class="blog-meta"><p class="blog-category">{{.Category}}</p><time datetime="{{.Date}}">{{.Date}}</time></div><h3 class="h3 blog-item-title">{{.Title}}</h3><p class="blog-text">{{.Description}}</p></div></a></li>{{end}}{{end}}
`))

func execute(name string, data interface{}) template.HTML {
	var buf bytes.Buffer
	if err := sectionTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Component("render").WithField("section", name).WithError(err).Error("Ошибка рендеринга секции")
		return ""
	}
	return template.HTML(buf.String())
}

// About рендерит личную секцию. Пустой слот — тихий no-op.
func About(snap content.Snapshot) (template.HTML, bool) {
	if snap.Personal == nil {
		return "", false
	}
	return execute("about", snap.Personal), true
}

// Services рендерит список услуг в порядке хранения.
func Services(snap content.Snapshot) (template.HTML, bool) {
	if snap.Services == nil {
		return "", false
	}
	return execute("services", snap.Services), true
}

// Awards рендерит награды.
func Awards(snap content.Snapshot) (template.HTML, bool) {
	if snap.Awards == nil {
		return "", false
	}
	return execute("awards", snap.Awards), true
}

// SkillLists рендерит оба списка навыков в порядке хранения.
func SkillLists(snap content.Snapshot) (template.HTML, bool) {
	if snap.Skills == nil {
		return "", false
	}
	return execute("skills", snap.Skills), true
}

// ExperienceTimeline рендерит опыт работы от последнего к первому.
func ExperienceTimeline(snap content.Snapshot) (template.HTML, bool) {
	if snap.Experience == nil {
		return "", false
	}
	reversed := make([]models.Experience, 0, len(snap.Experience))
	for i := len(snap.Experience) - 1; i >= 0; i-- {
		reversed = append(reversed, snap.Experience[i])
	}
	return execute("experience", reversed), true
}

// EducationTimeline рендерит образование в порядке хранения.
func EducationTimeline(snap content.Snapshot) (template.HTML, bool) {
	if snap.Education == nil {
		return "", false
	}
	return execute("education", snap.Education), true
}

// Certifications рендерит сертификаты.
func Certifications(snap content.Snapshot) (template.HTML, bool) {
	if snap.Certifications == nil {
		return "", false
	}
	return execute("certifications", snap.Certifications), true
}

// Projects рендерит проекты; категория уходит в data-атрибут для фильтра.
func Projects(snap content.Snapshot) (template.HTML, bool) {
	if snap.Projects == nil {
		return "", false
	}
	return execute("projects", snap.Projects), true
}

// Blog рендерит записи блога.
func Blog(snap content.Snapshot) (template.HTML, bool) {
	if snap.Blog == nil {
		return "", false
	}
	return execute("blog", snap.Blog), true
}

// sectionRenderers сопоставляет секцию с её рендерами. Timeline собирается
// из двух документов.
var sectionRenderers = map[string][]func(content.Snapshot) (template.HTML, bool){
	models.SectionAbout:          {About},
	models.SectionServices:       {Services},
	models.SectionAwards:         {Awards},
	models.SectionSkills:         {SkillLists},
	models.SectionTimeline:       {ExperienceTimeline, EducationTimeline},
	models.SectionCertifications: {Certifications},
	models.SectionProjects:       {Projects},
	models.SectionBlog:           {Blog},
}

// Renderer наполняет секции и отчитывается менеджеру скелетонов.
type Renderer struct {
	skeletons *skeleton.Manager
}

// New создаёт рендерер.
func New(skeletons *skeleton.Manager) *Renderer {
	return &Renderer{skeletons: skeletons}
}

// Populate рендерит одну секцию. При успешном наполнении скелетон секции
// скрывается; пустой слот оставляет скелетон на месте.
func (r *Renderer) Populate(section string, snap content.Snapshot) template.HTML {
	renderers, ok := sectionRenderers[section]
	if !ok {
		return ""
	}

	var buf bytes.Buffer
	complete := true
	for _, fn := range renderers {
		html, present := fn(snap)
		if !present {
			complete = false
			continue
		}
		buf.WriteString(string(html))
	}

	if complete && r.skeletons != nil {
		r.skeletons.HideSkeleton(section)
	}
	return template.HTML(buf.String())
}

// PopulateAll рендерит все секции и возвращает карту секция → HTML.
func (r *Renderer) PopulateAll(snap content.Snapshot) map[string]template.HTML {
	out := make(map[string]template.HTML, len(models.SectionNames))
	for _, section := range models.SectionNames {
		out[section] = r.Populate(section, snap)
	}
	return out
}
