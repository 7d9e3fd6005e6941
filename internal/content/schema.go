package content

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schemas    map[string]*gojsonschema.Schema
	schemaErr  error
)

// loadSchemas компилирует встроенные схемы один раз.
func loadSchemas() {
	schemas = make(map[string]*gojsonschema.Schema, len(models.DocumentKeys))
	for _, key := range models.DocumentKeys {
		raw, err := schemaFS.ReadFile("schemas/" + key + ".schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("content: схема %s не найдена: %w", key, err)
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			schemaErr = fmt.Errorf("content: схема %s не компилируется: %w", key, err)
			return
		}
		schemas[key] = schema
	}
}

// ValidateDocument проверяет сырой JSON документа по его схеме.
// Возвращает ValidationError со списком полей при нарушениях.
func ValidateDocument(key string, raw []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}

	schema, ok := schemas[key]
	if !ok {
		return apperr.Validationf("неизвестный документ %q", key)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return apperr.Validationf("документ %s: некорректный JSON: %v", key, err)
	}
	if result.Valid() {
		return nil
	}

	// Собираем нарушения по полям в устойчивом порядке.
	fields := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	sort.Strings(fields)
	return apperr.Validationf("документ %s не прошёл валидацию: %s", key, strings.Join(fields, "; "))
}
