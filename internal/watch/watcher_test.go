package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

type recordingBroadcaster struct {
	events []string
	data   []any
}

func (b *recordingBroadcaster) Broadcast(event string, data any) error {
	b.events = append(b.events, event)
	b.data = append(b.data, data)
	return nil
}

func writeDoc(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("не удалось записать %s: %v", name, err)
	}
}

func TestWatcher_ReloadUpdatesStoreAndNotifies(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "services.json", `[{"id":1,"title":"Аудит","description":"Смарт-контракты","icon":"shield"}]`)

	store := content.NewStore()
	hub := &recordingBroadcaster{}
	w := NewWatcher(dir, store, hub)

	w.reload([]string{models.DocServices})

	if !store.Has(models.DocServices) {
		t.Fatal("документ не попал в хранилище")
	}
	snap := store.Snapshot()
	if len(snap.Services) != 1 || snap.Services[0].Title != "Аудит" {
		t.Errorf("услуги после перезагрузки = %+v", snap.Services)
	}
	if len(hub.events) != 1 || hub.events[0] != EventContentUpdated {
		t.Errorf("события = %v", hub.events)
	}
}

func TestWatcher_InvalidFileKeepsCurrentDocument(t *testing.T) {
	dir := t.TempDir()
	store := content.NewStore()
	if err := store.SetDocument(models.DocServices, []byte(`[{"id":1,"title":"Старое","description":"","icon":""}]`)); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}

	writeDoc(t, dir, "services.json", `{"это": "не массив"}`)

	hub := &recordingBroadcaster{}
	w := NewWatcher(dir, store, hub)
	w.reload([]string{models.DocServices})

	snap := store.Snapshot()
	if len(snap.Services) != 1 || snap.Services[0].Title != "Старое" {
		t.Errorf("невалидный файл затёр документ: %+v", snap.Services)
	}
	if len(hub.events) != 0 {
		t.Errorf("рассылка при неудачной перезагрузке: %v", hub.events)
	}
}

func TestWatcher_MissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	store := content.NewStore()
	hub := &recordingBroadcaster{}
	w := NewWatcher(dir, store, hub)

	w.reload([]string{models.DocAwards})

	if store.Has(models.DocAwards) {
		t.Error("несуществующий файл попал в хранилище")
	}
	if len(hub.events) != 0 {
		t.Errorf("рассылка без перезагруженных файлов: %v", hub.events)
	}
}
