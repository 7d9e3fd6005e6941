package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/persist"
)

// Списки навыков, редактируемые по отдельности.
const (
	SkillListAbout  = "about"
	SkillListResume = "resume"
)

// SaveReport — агрегированный итог сохранения всех документов.
type SaveReport struct {
	Saved  int      `json:"saved"`
	Total  int      `json:"total"`
	Failed []string `json:"failed,omitempty"`
}

// ConnectionTester реализуется бэкендами, умеющими проверять доступность
// хранилища без записи.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

// CMSService — редактор контента: держит зеркало хранилища в памяти,
// мутирует его по полям и сохраняет всё разом через настроенный бэкенд.
// До вызова SaveAll никакого сетевого ввода-вывода не происходит.
type CMSService struct {
	mu      sync.Mutex
	store   *content.Store
	mirror  content.Snapshot
	backend persist.Backend
}

// NewCMSService создаёт редактор поверх хранилища и бэкенда сохранения.
// Зеркало сразу получает пустые одиночки: SaveAll до первой загрузки
// не должен коммитить personal.json или skills.json как null.
func NewCMSService(store *content.Store, backend persist.Backend) *CMSService {
	s := &CMSService{store: store, backend: backend}
	s.seedSingletons()
	return s
}

// Load заполняет зеркало глубокой копией хранилища. Пустые слоты-одиночки
// получают пустые значения, чтобы формам было что редактировать.
func (s *CMSService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mirror = s.store.Clone()
	s.seedSingletonsLocked()
}

func (s *CMSService) seedSingletons() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedSingletonsLocked()
}

func (s *CMSService) seedSingletonsLocked() {
	if s.mirror.Personal == nil {
		s.mirror.Personal = &models.Personal{Bio: []string{}, SocialLinks: []models.SocialLink{}}
	}
	if s.mirror.Skills == nil {
		s.mirror.Skills = &models.Skills{AboutSkills: []string{}, ResumeSkills: []string{}}
	}
}

// Snapshot возвращает глубокую копию зеркала для сериализации в ответ API.
// Копия обязательна: хэндлеры маршалят снимок вне мьютекса, а обновления
// полей пишут в элементы зеркала по месту.
func (s *CMSService) Snapshot() content.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.Clone()
}

// --- Personal ---

// UpdatePersonal меняет одно поле личных данных.
func (s *CMSService) UpdatePersonal(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.mirror.Personal
	if p == nil {
		return
	}
	switch field {
	case "name":
		p.Name = value
	case "title":
		p.Title = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "location":
		p.Location = value
	case "avatar":
		p.Avatar = value
	}
}

// UpdateBio меняет абзац биографии; выход за границы — no-op.
func (s *CMSService) UpdateBio(index int, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Personal == nil || index < 0 || index >= len(s.mirror.Personal.Bio) {
		return
	}
	s.mirror.Personal.Bio[index] = value
}

// AddBioParagraph добавляет абзац биографии; больше двух не бывает.
func (s *CMSService) AddBioParagraph() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Personal == nil || len(s.mirror.Personal.Bio) >= 2 {
		return
	}
	s.mirror.Personal.Bio = append(s.mirror.Personal.Bio, "")
}

// AddSocialLink добавляет пустую ссылку на соцсеть.
func (s *CMSService) AddSocialLink() models.SocialLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	link := models.SocialLink{}
	if s.mirror.Personal != nil {
		s.mirror.Personal.SocialLinks = append(s.mirror.Personal.SocialLinks, link)
	}
	return link
}

// UpdateSocialLink меняет поле ссылки; выход за границы — no-op.
func (s *CMSService) UpdateSocialLink(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Personal == nil || index < 0 || index >= len(s.mirror.Personal.SocialLinks) {
		return
	}
	link := &s.mirror.Personal.SocialLinks[index]
	switch field {
	case "platform":
		link.Platform = value
	case "url":
		link.URL = value
	case "icon":
		link.Icon = value
	}
}

// RemoveSocialLink удаляет ссылку по индексу.
func (s *CMSService) RemoveSocialLink(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Personal == nil {
		return
	}
	s.mirror.Personal.SocialLinks = removeAt(s.mirror.Personal.SocialLinks, index)
}

// --- Services ---

// AddService добавляет пустую услугу и возвращает её.
func (s *CMSService) AddService() models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewService()
	s.mirror.Services = append(s.mirror.Services, item)
	return item
}

// UpdateService меняет поле услуги; выход за границы — no-op.
func (s *CMSService) UpdateService(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Services) {
		return
	}
	item := &s.mirror.Services[index]
	switch field {
	case "title":
		item.Title = value
	case "description":
		item.Description = value
	case "icon":
		item.Icon = value
	}
}

// RemoveService удаляет услугу по индексу.
func (s *CMSService) RemoveService(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Services = removeAt(s.mirror.Services, index)
}

// --- Awards ---

// AddAward добавляет пустую награду.
func (s *CMSService) AddAward() models.Award {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewAward()
	s.mirror.Awards = append(s.mirror.Awards, item)
	return item
}

// UpdateAward меняет поле награды.
func (s *CMSService) UpdateAward(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Awards) {
		return
	}
	item := &s.mirror.Awards[index]
	switch field {
	case "title":
		item.Title = value
	case "description":
		item.Description = value
	case "image":
		item.Image = value
	case "imageClass":
		item.ImageClass = value
	}
}

// RemoveAward удаляет награду по индексу.
func (s *CMSService) RemoveAward(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Awards = removeAt(s.mirror.Awards, index)
}

// --- Skills ---

// AddSkill добавляет пустой навык в указанный список.
func (s *CMSService) AddSkill(list string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Skills == nil {
		return
	}
	switch list {
	case SkillListAbout:
		s.mirror.Skills.AboutSkills = append(s.mirror.Skills.AboutSkills, "")
	case SkillListResume:
		s.mirror.Skills.ResumeSkills = append(s.mirror.Skills.ResumeSkills, "")
	}
}

// UpdateSkill меняет навык по индексу; выход за границы — no-op.
func (s *CMSService) UpdateSkill(list string, index int, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Skills == nil {
		return
	}
	switch list {
	case SkillListAbout:
		if index >= 0 && index < len(s.mirror.Skills.AboutSkills) {
			s.mirror.Skills.AboutSkills[index] = value
		}
	case SkillListResume:
		if index >= 0 && index < len(s.mirror.Skills.ResumeSkills) {
			s.mirror.Skills.ResumeSkills[index] = value
		}
	}
}

// RemoveSkill удаляет навык по индексу, сохраняя порядок остальных.
func (s *CMSService) RemoveSkill(list string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror.Skills == nil {
		return
	}
	switch list {
	case SkillListAbout:
		s.mirror.Skills.AboutSkills = removeAt(s.mirror.Skills.AboutSkills, index)
	case SkillListResume:
		s.mirror.Skills.ResumeSkills = removeAt(s.mirror.Skills.ResumeSkills, index)
	}
}

// --- Experience ---

// AddExperience добавляет пустой этап опыта.
func (s *CMSService) AddExperience() models.Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewExperience()
	s.mirror.Experience = append(s.mirror.Experience, item)
	return item
}

// UpdateExperience меняет поле этапа опыта.
func (s *CMSService) UpdateExperience(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Experience) {
		return
	}
	item := &s.mirror.Experience[index]
	switch field {
	case "position":
		item.Position = value
	case "company":
		item.Company = value
	case "startDate":
		item.StartDate = value
	case "endDate":
		item.EndDate = value
	}
}

// RemoveExperience удаляет этап опыта по индексу.
func (s *CMSService) RemoveExperience(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Experience = removeAt(s.mirror.Experience, index)
}

// AddAchievement добавляет пустое достижение к этапу опыта.
func (s *CMSService) AddAchievement(expIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expIndex < 0 || expIndex >= len(s.mirror.Experience) {
		return
	}
	exp := &s.mirror.Experience[expIndex]
	exp.Achievements = append(exp.Achievements, "")
}

// UpdateAchievement меняет достижение по индексу.
func (s *CMSService) UpdateAchievement(expIndex, index int, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expIndex < 0 || expIndex >= len(s.mirror.Experience) {
		return
	}
	exp := &s.mirror.Experience[expIndex]
	if index < 0 || index >= len(exp.Achievements) {
		return
	}
	exp.Achievements[index] = value
}

// RemoveAchievement удаляет достижение по индексу.
func (s *CMSService) RemoveAchievement(expIndex, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expIndex < 0 || expIndex >= len(s.mirror.Experience) {
		return
	}
	exp := &s.mirror.Experience[expIndex]
	exp.Achievements = removeAt(exp.Achievements, index)
}

// --- Education ---

// AddEducation добавляет пустой этап образования.
func (s *CMSService) AddEducation() models.Education {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewEducation()
	s.mirror.Education = append(s.mirror.Education, item)
	return item
}

// UpdateEducation меняет поле этапа образования.
func (s *CMSService) UpdateEducation(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Education) {
		return
	}
	item := &s.mirror.Education[index]
	switch field {
	case "institution":
		item.Institution = value
	case "degree":
		item.Degree = value
	case "period":
		item.Period = value
	}
}

// RemoveEducation удаляет этап образования по индексу.
func (s *CMSService) RemoveEducation(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Education = removeAt(s.mirror.Education, index)
}

// AddCourse добавляет пустой курс к этапу образования.
func (s *CMSService) AddCourse(eduIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eduIndex < 0 || eduIndex >= len(s.mirror.Education) {
		return
	}
	edu := &s.mirror.Education[eduIndex]
	edu.Courses = append(edu.Courses, "")
}

// UpdateCourse меняет курс по индексу.
func (s *CMSService) UpdateCourse(eduIndex, index int, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eduIndex < 0 || eduIndex >= len(s.mirror.Education) {
		return
	}
	edu := &s.mirror.Education[eduIndex]
	if index < 0 || index >= len(edu.Courses) {
		return
	}
	edu.Courses[index] = value
}

// RemoveCourse удаляет курс по индексу.
func (s *CMSService) RemoveCourse(eduIndex, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eduIndex < 0 || eduIndex >= len(s.mirror.Education) {
		return
	}
	edu := &s.mirror.Education[eduIndex]
	edu.Courses = removeAt(edu.Courses, index)
}

// --- Certifications ---

// AddCertification добавляет пустой сертификат.
func (s *CMSService) AddCertification() models.Certification {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewCertification()
	s.mirror.Certifications = append(s.mirror.Certifications, item)
	return item
}

// UpdateCertification меняет поле сертификата.
func (s *CMSService) UpdateCertification(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Certifications) {
		return
	}
	item := &s.mirror.Certifications[index]
	switch field {
	case "name":
		item.Name = value
	case "issuer":
		item.Issuer = value
	case "issueDate":
		item.IssueDate = value
	case "credentialId":
		item.CredentialID = value
	case "image":
		item.Image = value
	case "imageClass":
		item.ImageClass = value
	}
}

// RemoveCertification удаляет сертификат по индексу.
func (s *CMSService) RemoveCertification(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Certifications = removeAt(s.mirror.Certifications, index)
}

// --- Projects ---

// AddProject добавляет проект с дефолтной категорией web2.
func (s *CMSService) AddProject() models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewProject()
	s.mirror.Projects = append(s.mirror.Projects, item)
	return item
}

// UpdateProject меняет поле проекта; featured принимает "true"/"false".
func (s *CMSService) UpdateProject(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Projects) {
		return
	}
	item := &s.mirror.Projects[index]
	switch field {
	case "title":
		item.Title = value
	case "category":
		item.Category = value
	case "description":
		item.Description = value
	case "image":
		item.Image = value
	case "url":
		item.URL = value
	case "featured":
		item.Featured, _ = strconv.ParseBool(value)
	}
}

// RemoveProject удаляет проект по индексу.
func (s *CMSService) RemoveProject(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Projects = removeAt(s.mirror.Projects, index)
}

// --- Blog ---

// AddBlogPost добавляет пустую запись блога.
func (s *CMSService) AddBlogPost() models.BlogPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.NewBlogPost()
	s.mirror.Blog = append(s.mirror.Blog, item)
	return item
}

// UpdateBlogPost меняет поле записи блога.
func (s *CMSService) UpdateBlogPost(index int, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.mirror.Blog) {
		return
	}
	item := &s.mirror.Blog[index]
	switch field {
	case "title":
		item.Title = value
	case "category":
		item.Category = value
	case "date":
		item.Date = value
	case "description":
		item.Description = value
	case "image":
		item.Image = value
	case "url":
		item.URL = value
	case "featured":
		item.Featured, _ = strconv.ParseBool(value)
	}
}

// RemoveBlogPost удаляет запись блога по индексу.
func (s *CMSService) RemoveBlogPost(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror.Blog = removeAt(s.mirror.Blog, index)
}

// --- Сохранение ---

// MarshalDocument сериализует документ зеркала в формат хранения.
// Сериализация идёт под мьютексом: слайсы зеркала мутируются по месту.
func (s *CMSService) MarshalDocument(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return content.MarshalDocument(s.mirror, key)
}

// SaveAll сериализует все девять документов и проталкивает их через бэкенд.
// Отказ одного файла не прерывает остальные; итог агрегируется.
func (s *CMSService) SaveAll(ctx context.Context) SaveReport {
	log := logger.Component("cms")
	report := SaveReport{Total: len(models.DocumentKeys)}

	for _, key := range models.DocumentKeys {
		data, err := s.MarshalDocument(key)
		if err == nil {
			err = s.backend.PutFile(ctx, models.Filename(key), data)
		}
		if err != nil {
			log.WithField("file", models.Filename(key)).WithError(err).Error("Не удалось сохранить документ")
			report.Failed = append(report.Failed, models.Filename(key))
			continue
		}
		report.Saved++
	}

	log.WithField("saved", report.Saved).WithField("failed", len(report.Failed)).Info("Сохранение завершено")
	return report
}

// Apply переносит зеркало в живое хранилище, чтобы сайт отдавал
// отредактированный контент не дожидаясь перезагрузки файлов.
func (s *CMSService) Apply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Replace(s.mirror)
}

// TestConnection проверяет настроенный бэкенд, если тот умеет проверку.
func (s *CMSService) TestConnection(ctx context.Context) error {
	if tester, ok := s.backend.(ConnectionTester); ok {
		return tester.TestConnection(ctx)
	}
	return nil
}

// removeAt удаляет элемент по индексу, не меняя порядок остальных.
// Выход за границы — no-op.
func removeAt[T any](items []T, index int) []T {
	if index < 0 || index >= len(items) {
		return items
	}
	return append(items[:index], items[index+1:]...)
}
