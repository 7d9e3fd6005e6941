package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// CMSHandler — HTTP слой редактора контента. Все маршруты закрыты
// JWT middleware; мутации меняют только зеркало в памяти, запись
// в хранилище происходит по явной команде save.
type CMSHandler struct {
	cms *service.CMSService
}

// NewCMSHandler создаёт хэндлер.
func NewCMSHandler(cms *service.CMSService) *CMSHandler {
	return &CMSHandler{cms: cms}
}

// GetData обрабатывает GET /api/cms/data — текущее зеркало редактора.
func (h *CMSHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.cms.Snapshot())
}

// Reload обрабатывает POST /api/cms/reload — сброс зеркала к содержимому
// живого хранилища, несохранённые правки теряются.
func (h *CMSHandler) Reload(c *gin.Context) {
	h.cms.Load()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type fieldUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type valueUpdate struct {
	Value string `json:"value"`
}

// UpdatePersonal обрабатывает PATCH /api/cms/personal.
func (h *CMSHandler) UpdatePersonal(c *gin.Context) {
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле field обязательно"})
		return
	}
	h.cms.UpdatePersonal(req.Field, req.Value)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddBio обрабатывает POST /api/cms/personal/bio.
func (h *CMSHandler) AddBio(c *gin.Context) {
	h.cms.AddBioParagraph()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateBio обрабатывает PATCH /api/cms/personal/bio/:index.
func (h *CMSHandler) UpdateBio(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req valueUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	h.cms.UpdateBio(index, req.Value)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddSocialLink обрабатывает POST /api/cms/personal/social-links.
func (h *CMSHandler) AddSocialLink(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "item": h.cms.AddSocialLink()})
}

// UpdateSocialLink обрабатывает PATCH /api/cms/personal/social-links/:index.
func (h *CMSHandler) UpdateSocialLink(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле field обязательно"})
		return
	}
	h.cms.UpdateSocialLink(index, req.Field, req.Value)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveSocialLink обрабатывает DELETE /api/cms/personal/social-links/:index.
func (h *CMSHandler) RemoveSocialLink(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	h.cms.RemoveSocialLink(index)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddItem обрабатывает POST /api/cms/:collection — добавление элемента
// в одну из коллекций контента.
func (h *CMSHandler) AddItem(c *gin.Context) {
	var item any
	switch c.Param("collection") {
	case "services":
		item = h.cms.AddService()
	case "awards":
		item = h.cms.AddAward()
	case "experience":
		item = h.cms.AddExperience()
	case "education":
		item = h.cms.AddEducation()
	case "certifications":
		item = h.cms.AddCertification()
	case "projects":
		item = h.cms.AddProject()
	case "blog":
		item = h.cms.AddBlogPost()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестная коллекция"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

// UpdateItem обрабатывает PATCH /api/cms/:collection/:index.
func (h *CMSHandler) UpdateItem(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле field обязательно"})
		return
	}

	switch c.Param("collection") {
	case "services":
		h.cms.UpdateService(index, req.Field, req.Value)
	case "awards":
		h.cms.UpdateAward(index, req.Field, req.Value)
	case "experience":
		h.cms.UpdateExperience(index, req.Field, req.Value)
	case "education":
		h.cms.UpdateEducation(index, req.Field, req.Value)
	case "certifications":
		h.cms.UpdateCertification(index, req.Field, req.Value)
	case "projects":
		h.cms.UpdateProject(index, req.Field, req.Value)
	case "blog":
		h.cms.UpdateBlogPost(index, req.Field, req.Value)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестная коллекция"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveItem обрабатывает DELETE /api/cms/:collection/:index.
func (h *CMSHandler) RemoveItem(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	switch c.Param("collection") {
	case "services":
		h.cms.RemoveService(index)
	case "awards":
		h.cms.RemoveAward(index)
	case "experience":
		h.cms.RemoveExperience(index)
	case "education":
		h.cms.RemoveEducation(index)
	case "certifications":
		h.cms.RemoveCertification(index)
	case "projects":
		h.cms.RemoveProject(index)
	case "blog":
		h.cms.RemoveBlogPost(index)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестная коллекция"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddSkill обрабатывает POST /api/cms/skills/:list.
func (h *CMSHandler) AddSkill(c *gin.Context) {
	list, ok := skillList(c)
	if !ok {
		return
	}
	h.cms.AddSkill(list)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateSkill обрабатывает PATCH /api/cms/skills/:list/:index.
func (h *CMSHandler) UpdateSkill(c *gin.Context) {
	list, ok := skillList(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req valueUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	h.cms.UpdateSkill(list, index, req.Value)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveSkill обрабатывает DELETE /api/cms/skills/:list/:index.
func (h *CMSHandler) RemoveSkill(c *gin.Context) {
	list, ok := skillList(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	h.cms.RemoveSkill(list, index)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddNested обрабатывает POST /api/cms/:collection/:index/items —
// достижения опыта и курсы образования.
func (h *CMSHandler) AddNested(c *gin.Context) {
	parent, ok := indexParam(c, "index")
	if !ok {
		return
	}
	switch c.Param("collection") {
	case "experience":
		h.cms.AddAchievement(parent)
	case "education":
		h.cms.AddCourse(parent)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "коллекция не содержит вложенных списков"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateNested обрабатывает PATCH /api/cms/:collection/:index/items/:item.
func (h *CMSHandler) UpdateNested(c *gin.Context) {
	parent, ok := indexParam(c, "index")
	if !ok {
		return
	}
	item, ok := indexParam(c, "item")
	if !ok {
		return
	}
	var req valueUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	switch c.Param("collection") {
	case "experience":
		h.cms.UpdateAchievement(parent, item, req.Value)
	case "education":
		h.cms.UpdateCourse(parent, item, req.Value)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "коллекция не содержит вложенных списков"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveNested обрабатывает DELETE /api/cms/:collection/:index/items/:item.
func (h *CMSHandler) RemoveNested(c *gin.Context) {
	parent, ok := indexParam(c, "index")
	if !ok {
		return
	}
	item, ok := indexParam(c, "item")
	if !ok {
		return
	}

	switch c.Param("collection") {
	case "experience":
		h.cms.RemoveAchievement(parent, item)
	case "education":
		h.cms.RemoveCourse(parent, item)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "коллекция не содержит вложенных списков"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Save обрабатывает POST /api/cms/save — сохранение всех девяти документов.
// Частичный отказ возвращает 207 с перечнем несохранённых файлов.
func (h *CMSHandler) Save(c *gin.Context) {
	report := h.cms.SaveAll(c.Request.Context())

	if len(report.Failed) == 0 {
		h.cms.Apply()
		c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
		return
	}

	status := http.StatusMultiStatus
	if report.Saved == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"success": false, "report": report})
}

// TestConnection обрабатывает POST /api/cms/test-connection.
func (h *CMSHandler) TestConnection(c *gin.Context) {
	if err := h.cms.TestConnection(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// indexParam разбирает числовой параметр пути; отрицательные отклоняются.
func indexParam(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "параметр " + name + " должен быть неотрицательным числом"})
		return 0, false
	}
	return index, true
}

// skillList проверяет параметр списка навыков.
func skillList(c *gin.Context) (string, bool) {
	list := c.Param("list")
	if list != service.SkillListAbout && list != service.SkillListResume {
		c.JSON(http.StatusBadRequest, gin.H{"error": "список навыков должен быть about или resume"})
		return "", false
	}
	return list, true
}
