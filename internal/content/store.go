package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// Snapshot — срез всех девяти документов. Пустой слот остаётся nil:
// документ не загрузился, но может быть дозагружен повторной попыткой.
type Snapshot struct {
	Personal       *models.Personal       `json:"personal,omitempty"`
	Services       []models.Service       `json:"services,omitempty"`
	Awards         []models.Award         `json:"awards,omitempty"`
	Skills         *models.Skills         `json:"skills,omitempty"`
	Experience     []models.Experience    `json:"experience,omitempty"`
	Education      []models.Education     `json:"education,omitempty"`
	Certifications []models.Certification `json:"certifications,omitempty"`
	Projects       []models.Project       `json:"projects,omitempty"`
	Blog           []models.BlogPost      `json:"blog,omitempty"`
}

// Store — единственный владелец документов контента.
// Рендерер и CMS читают и пишут только через него.
type Store struct {
	mu   sync.RWMutex
	data Snapshot
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{}
}

// SetDocument разбирает сырой JSON и кладёт документ в свой слот.
// При ошибке разбора слот не трогается.
func (s *Store) SetDocument(key string, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case models.DocPersonal:
		var v models.Personal
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Personal = &v
	case models.DocServices:
		var v []models.Service
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Services = v
	case models.DocAwards:
		var v []models.Award
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Awards = v
	case models.DocSkills:
		var v models.Skills
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Skills = &v
	case models.DocExperience:
		var v []models.Experience
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Experience = v
	case models.DocEducation:
		var v []models.Education
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Education = v
	case models.DocCertifications:
		var v []models.Certification
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Certifications = v
	case models.DocProjects:
		var v []models.Project
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Projects = v
	case models.DocBlog:
		var v []models.BlogPost
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content: не удалось разобрать %s: %w", key, err)
		}
		s.data.Blog = v
	default:
		return fmt.Errorf("content: неизвестный документ %q", key)
	}
	return nil
}

// Has сообщает, заполнен ли слот документа.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch key {
	case models.DocPersonal:
		return s.data.Personal != nil
	case models.DocServices:
		return s.data.Services != nil
	case models.DocAwards:
		return s.data.Awards != nil
	case models.DocSkills:
		return s.data.Skills != nil
	case models.DocExperience:
		return s.data.Experience != nil
	case models.DocEducation:
		return s.data.Education != nil
	case models.DocCertifications:
		return s.data.Certifications != nil
	case models.DocProjects:
		return s.data.Projects != nil
	case models.DocBlog:
		return s.data.Blog != nil
	}
	return false
}

// Snapshot возвращает копию среза для чтения.
// Слайсы разделяются с хранилищем, мутировать их нельзя.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Clone возвращает глубокую копию среза для зеркала CMS.
func (s *Store) Clone() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.data)
}

// Replace целиком заменяет содержимое хранилища (горячая перезагрузка).
// Снимок копируется, чтобы вызывающий не делил память с хранилищем.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = cloneSnapshot(snap)
}

// MarshalDocument сериализует один документ в формат хранения:
// JSON с отступом в два пробела и завершающим переводом строки.
func (s *Store) MarshalDocument(key string) ([]byte, error) {
	return MarshalDocument(s.Snapshot(), key)
}

// MarshalDocument сериализует документ из произвольного среза.
// Пустой слот сериализуется дефолтным значением (null или []),
// чтобы сохранение не придумывало данные за несуществующий файл.
func MarshalDocument(snap Snapshot, key string) ([]byte, error) {
	var v interface{}
	switch key {
	case models.DocPersonal:
		v = snap.Personal
	case models.DocServices:
		v = emptyIfNil(snap.Services)
	case models.DocAwards:
		v = emptyIfNil(snap.Awards)
	case models.DocSkills:
		v = snap.Skills
	case models.DocExperience:
		v = emptyIfNil(snap.Experience)
	case models.DocEducation:
		v = emptyIfNil(snap.Education)
	case models.DocCertifications:
		v = emptyIfNil(snap.Certifications)
	case models.DocProjects:
		v = emptyIfNil(snap.Projects)
	case models.DocBlog:
		v = emptyIfNil(snap.Blog)
	default:
		return nil, fmt.Errorf("content: неизвестный документ %q", key)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("content: не удалось сериализовать %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// cloneSlice копирует слайс, сохраняя различие между nil (слот пуст)
// и пустым загруженным документом.
func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// Clone возвращает глубокую копию снимка: слайсы и указатели
// не разделяются с оригиналом.
func (s Snapshot) Clone() Snapshot {
	return cloneSnapshot(s)
}

func cloneSnapshot(src Snapshot) Snapshot {
	dst := Snapshot{
		Services:       cloneSlice(src.Services),
		Awards:         cloneSlice(src.Awards),
		Certifications: cloneSlice(src.Certifications),
		Projects:       cloneSlice(src.Projects),
		Blog:           cloneSlice(src.Blog),
	}

	if src.Personal != nil {
		p := *src.Personal
		p.Bio = cloneSlice(src.Personal.Bio)
		p.SocialLinks = cloneSlice(src.Personal.SocialLinks)
		dst.Personal = &p
	}
	if src.Skills != nil {
		sk := models.Skills{
			AboutSkills:  cloneSlice(src.Skills.AboutSkills),
			ResumeSkills: cloneSlice(src.Skills.ResumeSkills),
		}
		dst.Skills = &sk
	}
	if src.Experience != nil {
		dst.Experience = make([]models.Experience, len(src.Experience))
		for i, e := range src.Experience {
			e.Achievements = cloneSlice(e.Achievements)
			dst.Experience[i] = e
		}
	}
	if src.Education != nil {
		dst.Education = make([]models.Education, len(src.Education))
		for i, e := range src.Education {
			e.Courses = cloneSlice(e.Courses)
			dst.Education[i] = e
		}
	}
	return dst
}
