package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// mockFetcher отдаёт валидные документы и имитирует отказы по ключам.
type mockFetcher struct {
	mu      sync.Mutex
	fail    map[string]error
	delay   map[string]time.Duration
	fetched []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		fail:  make(map[string]error),
		delay: make(map[string]time.Duration),
	}
}

func validDocument(key string) json.RawMessage {
	switch key {
	case models.DocPersonal:
		return json.RawMessage(`{"name": "Иван", "title": "Developer", "bio": ["a"]}`)
	case models.DocSkills:
		return json.RawMessage(`{"aboutSkills": ["Go"], "resumeSkills": ["Git"]}`)
	default:
		return json.RawMessage(`[]`)
	}
}

func (m *mockFetcher) FetchDocument(ctx context.Context, key string) (json.RawMessage, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, key)
	delay := m.delay[key]
	failErr := m.fail[key]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failErr != nil {
		return nil, failErr
	}
	return validDocument(key), nil
}

func (m *mockFetcher) fetchedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

func testTimeouts() config.Loader {
	return config.Loader{
		FileTimeout:  200 * time.Millisecond,
		BatchTimeout: time.Second,
		WarnAfter:    500 * time.Millisecond,
	}
}

func TestLoadAll_Success(t *testing.T) {
	fetcher := newMockFetcher()
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	outcome, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if outcome.Status != StatusSuccess {
		t.Fatalf("ожидали success, получили %s", outcome.Status)
	}

	for _, key := range models.DocumentKeys {
		if !store.Has(key) {
			t.Errorf("документ %s не попал в хранилище", key)
		}
	}
}

func TestLoadAll_PersonalFailedIsCritical(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.fail[models.DocPersonal] = errors.New("404 not found")
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	outcome, err := l.LoadAll(context.Background())
	if err == nil {
		t.Fatal("критический отказ должен возвращать ошибку")
	}
	if !errors.Is(err, ErrCriticalLoad) {
		t.Fatalf("ожидали ErrCriticalLoad, получили %v", err)
	}
	if outcome.Status != StatusCritical || outcome.Reason != ReasonCriticalFile {
		t.Fatalf("ожидали critical/critical-file, получили %s/%s", outcome.Status, outcome.Reason)
	}
	if store.Has(models.DocPersonal) {
		t.Error("слот personal должен остаться пустым")
	}
	// Остальные документы не должны пострадать.
	if !store.Has(models.DocProjects) {
		t.Error("слот projects должен быть заполнен")
	}
}

func TestLoadAll_MajorityFailedIsNetwork(t *testing.T) {
	fetcher := newMockFetcher()
	for _, key := range []string{models.DocServices, models.DocAwards, models.DocSkills, models.DocExperience, models.DocEducation} {
		fetcher.fail[key] = errors.New("connection refused")
	}
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	outcome, err := l.LoadAll(context.Background())
	if err == nil {
		t.Fatal("критический отказ должен возвращать ошибку")
	}
	if outcome.Status != StatusCritical || outcome.Reason != ReasonNetwork {
		t.Fatalf("ожидали critical/network, получили %s/%s", outcome.Status, outcome.Reason)
	}
}

func TestLoadAll_SomeFailedIsDegraded(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.fail[models.DocBlog] = errors.New("boom")
	fetcher.fail[models.DocAwards] = errors.New("boom")
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	outcome, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("degraded не должен возвращать ошибку: %v", err)
	}
	if outcome.Status != StatusDegraded {
		t.Fatalf("ожидали degraded, получили %s", outcome.Status)
	}
	want := []string{models.DocAwards, models.DocBlog}
	if len(outcome.FailedFiles) != len(want) {
		t.Fatalf("ожидали %v, получили %v", want, outcome.FailedFiles)
	}
	for i, key := range want {
		if outcome.FailedFiles[i] != key {
			t.Fatalf("ожидали %v, получили %v", want, outcome.FailedFiles)
		}
	}
}

func TestLoadAll_InvalidDocumentLeavesSlotEmpty(t *testing.T) {
	fetcher := newMockFetcher()
	store := content.NewStore()

	// Проект без обязательных полей не проходит схему.
	wrapped := fetcherFunc(func(ctx context.Context, key string) (json.RawMessage, error) {
		if key == models.DocProjects {
			return json.RawMessage(`[{"title": "без id"}]`), nil
		}
		return fetcher.FetchDocument(ctx, key)
	})
	l := New(wrapped, store, testTimeouts())

	outcome, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if outcome.Status != StatusDegraded {
		t.Fatalf("ожидали degraded, получили %s", outcome.Status)
	}
	if store.Has(models.DocProjects) {
		t.Error("невалидный документ не должен попадать в хранилище")
	}
}

type fetcherFunc func(ctx context.Context, key string) (json.RawMessage, error)

func (f fetcherFunc) FetchDocument(ctx context.Context, key string) (json.RawMessage, error) {
	return f(ctx, key)
}

func TestRetrySection_TimelineFetchesBothFiles(t *testing.T) {
	fetcher := newMockFetcher()
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	if err := l.RetrySection(context.Background(), models.SectionTimeline); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	fetched := fetcher.fetchedKeys()
	if len(fetched) != 2 {
		t.Fatalf("ожидали ровно два запроса, получили %v", fetched)
	}
	got := map[string]bool{fetched[0]: true, fetched[1]: true}
	if !got[models.DocExperience] || !got[models.DocEducation] {
		t.Fatalf("ожидали experience и education, получили %v", fetched)
	}
	if !store.Has(models.DocExperience) || !store.Has(models.DocEducation) {
		t.Error("оба документа секции должны попасть в хранилище")
	}
}

func TestRetrySection_PartialFailureReportsError(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.fail[models.DocEducation] = errors.New("connection refused: network down")
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	err := l.RetrySection(context.Background(), models.SectionTimeline)
	if err == nil {
		t.Fatal("отказ одного файла секции должен вернуть ошибку")
	}
	// Успешный файл при этом сохраняется.
	if !store.Has(models.DocExperience) {
		t.Error("experience должен быть загружен несмотря на отказ education")
	}
	if store.Has(models.DocEducation) {
		t.Error("education не должен попасть в хранилище")
	}
}

func TestRetrySection_UnknownSection(t *testing.T) {
	l := New(newMockFetcher(), content.NewStore(), testTimeouts())
	err := l.RetrySection(context.Background(), "nonsense")
	if !apperr.IsValidation(err) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}
}

func TestLoadAll_PerFileTimeout(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.delay[models.DocBlog] = time.Second
	store := content.NewStore()
	l := New(fetcher, store, testTimeouts())

	outcome, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if outcome.Status != StatusDegraded {
		t.Fatalf("ожидали degraded, получили %s", outcome.Status)
	}
	if store.Has(models.DocBlog) {
		t.Error("просроченный документ не должен попадать в хранилище")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("загрузка: %w", context.DeadlineExceeded), KindTimeout},
		{"timeout sentinel", apperr.ErrTimeout, KindTimeout},
		{"message timeout", errors.New("request timeout after 5s"), KindTimeout},
		{"network sentinel", apperr.ErrNetwork, KindNetwork},
		{"generic", errors.New("что-то пошло не так"), KindGeneric},
		{"upstream", apperr.Upstream(500, "oops"), KindGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %s, ожидали %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestLoadAll_DegradedCarriesPerFileKinds(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.fail[models.DocEducation] = errors.New("request timeout")
	fetcher.fail[models.DocBlog] = errors.New("boom")
	store := content.NewStore()

	l := New(fetcher, store, testTimeouts())
	outcome, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if outcome.Status != StatusDegraded {
		t.Fatalf("статус = %s, ожидался degraded", outcome.Status)
	}

	if got := outcome.FailedKinds[models.DocEducation]; got != KindTimeout {
		t.Errorf("education: вид = %s, ожидался timeout", got)
	}
	if got := outcome.FailedKinds[models.DocBlog]; got != KindGeneric {
		t.Errorf("blog: вид = %s, ожидался generic", got)
	}

	sections := outcome.FailedSections()
	if got := sections[models.SectionTimeline]; got != KindTimeout {
		t.Errorf("timeline: вид = %s, ожидался timeout", got)
	}
	if got := sections[models.SectionBlog]; got != KindGeneric {
		t.Errorf("blog: вид = %s, ожидался generic", got)
	}
	if _, bad := sections[models.SectionAbout]; bad {
		t.Error("about не падал и не должен попадать в карту отказов")
	}
	if len(sections) != 2 {
		t.Errorf("секций с отказами %d, ожидалось 2", len(sections))
	}
}

func TestLoadAll_SuccessHasNoFailedSections(t *testing.T) {
	fetcher := newMockFetcher()
	store := content.NewStore()

	l := New(fetcher, store, testTimeouts())
	outcome, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if sections := outcome.FailedSections(); sections != nil {
		t.Errorf("ожидалась пустая карта отказов, получено %v", sections)
	}
}
