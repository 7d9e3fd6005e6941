package models

import "strings"

// Ключи девяти документов контента. Ключ совпадает с именем файла без .json.
const (
	DocPersonal       = "personal"
	DocServices       = "services"
	DocAwards         = "awards"
	DocSkills         = "skills"
	DocExperience     = "experience"
	DocEducation      = "education"
	DocCertifications = "certifications"
	DocProjects       = "projects"
	DocBlog           = "blog"
)

// DocumentKeys перечисляет все документы в каноническом порядке.
var DocumentKeys = []string{
	DocPersonal,
	DocServices,
	DocAwards,
	DocSkills,
	DocExperience,
	DocEducation,
	DocCertifications,
	DocProjects,
	DocBlog,
}

// allowedFiles — белый список имён файлов. Всё остальное отвергается
// до любого обращения к сети или диску.
var allowedFiles = func() map[string]bool {
	m := make(map[string]bool, len(DocumentKeys))
	for _, key := range DocumentKeys {
		m[key+".json"] = true
	}
	return m
}()

// AllowedFile проверяет имя файла по белому списку.
func AllowedFile(name string) bool {
	return allowedFiles[name]
}

// KnownKey проверяет, что ключ соответствует одному из девяти документов.
func KnownKey(key string) bool {
	return allowedFiles[key+".json"]
}

// Filename возвращает имя файла документа.
func Filename(key string) string {
	return key + ".json"
}

// KeyFromFilename возвращает ключ документа по имени файла
// или пустую строку, если файл не из белого списка.
func KeyFromFilename(name string) string {
	if !AllowedFile(name) {
		return ""
	}
	return strings.TrimSuffix(name, ".json")
}

// CriticalKey сообщает, является ли документ критичным для отрисовки страницы.
// Без personal странице нечего показывать — это единственный критичный файл.
func CriticalKey(key string) bool {
	return key == DocPersonal
}

// Секции портфолио с собственным жизненным циклом загрузки.
const (
	SectionAbout          = "about"
	SectionServices       = "services"
	SectionAwards         = "awards"
	SectionSkills         = "skills"
	SectionTimeline       = "timeline"
	SectionCertifications = "certifications"
	SectionProjects       = "projects"
	SectionBlog           = "blog"
)

// sectionFiles сопоставляет секцию с документами, которые её наполняют.
// Timeline объединяет опыт и образование; certifications отрисовывается
// внутри резюме, но перезагружается как отдельная секция.
var sectionFiles = map[string][]string{
	SectionAbout:          {DocPersonal},
	SectionServices:       {DocServices},
	SectionAwards:         {DocAwards},
	SectionSkills:         {DocSkills},
	SectionTimeline:       {DocExperience, DocEducation},
	SectionCertifications: {DocCertifications},
	SectionProjects:       {DocProjects},
	SectionBlog:           {DocBlog},
}

// SectionNames перечисляет секции в порядке появления на странице.
var SectionNames = []string{
	SectionAbout,
	SectionServices,
	SectionAwards,
	SectionSkills,
	SectionTimeline,
	SectionCertifications,
	SectionProjects,
	SectionBlog,
}

// SectionFiles возвращает документы секции; второй результат — известна ли секция.
func SectionFiles(section string) ([]string, bool) {
	files, ok := sectionFiles[section]
	return files, ok
}

// SectionOfKey возвращает секцию, которую наполняет документ.
func SectionOfKey(key string) string {
	for section, files := range sectionFiles {
		for _, f := range files {
			if f == key {
				return section
			}
		}
	}
	return ""
}
