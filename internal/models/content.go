package models

import "time"

// SocialLink описывает одну ссылку на соцсеть.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

// Personal описывает личные данные владельца портфолио.
// Документ-одиночка: всегда присутствует ровно один экземпляр.
type Personal struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Location    string       `json:"location"`
	Avatar      string       `json:"avatar"`
	Bio         []string     `json:"bio"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

// Service описывает одну услугу из секции "services".
type Service struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Award описывает одну награду.
type Award struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageClass  string `json:"imageClass"`
}

// Skills хранит два списка навыков; порядок элементов = порядок отображения.
type Skills struct {
	AboutSkills  []string `json:"aboutSkills"`
	ResumeSkills []string `json:"resumeSkills"`
}

// Experience описывает один этап опыта работы.
// Отображается от последнего к первому (порядок в файле — хронологический).
type Experience struct {
	ID           int64    `json:"id"`
	Position     string   `json:"position"`
	Company      string   `json:"company"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Achievements []string `json:"achievements"`
}

// Education описывает один этап образования.
type Education struct {
	ID          int64    `json:"id"`
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Period      string   `json:"period"`
	Courses     []string `json:"courses"`
}

// Certification описывает один сертификат.
type Certification struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate"`
	CredentialID string `json:"credentialId"`
	Image        string `json:"image"`
	ImageClass   string `json:"imageClass"`
}

// Категории проектов. Категория управляет клиентским фильтром.
const (
	CategoryWeb2     = "web2"
	CategoryWeb3     = "web3"
	CategoryIoT      = "iot & embedded systems"
	CategoryGraphics = "graphics design"
)

// Project описывает один проект портфолио.
type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Featured    bool   `json:"featured"`
}

// BlogPost описывает одну запись блога.
type BlogPost struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Featured    bool   `json:"featured"`
}

// NewID выдаёт идентификатор новой записи: метка времени создания в миллисекундах.
func NewID() int64 {
	return time.Now().UnixMilli()
}

// NewService возвращает услугу с пустыми полями для формы CMS.
func NewService() Service {
	return Service{ID: NewID()}
}

// NewAward возвращает награду с пустыми полями.
func NewAward() Award {
	return Award{ID: NewID()}
}

// NewExperience возвращает пустой этап опыта.
func NewExperience() Experience {
	return Experience{ID: NewID(), Achievements: []string{}}
}

// NewEducation возвращает пустой этап образования.
func NewEducation() Education {
	return Education{ID: NewID(), Courses: []string{}}
}

// NewCertification возвращает пустой сертификат.
func NewCertification() Certification {
	return Certification{ID: NewID()}
}

// NewProject возвращает проект с дефолтной категорией web2.
func NewProject() Project {
	return Project{ID: NewID(), Category: CategoryWeb2}
}

// NewBlogPost возвращает пустую запись блога.
func NewBlogPost() BlogPost {
	return BlogPost{ID: NewID()}
}
