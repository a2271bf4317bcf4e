package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
	"github.com/porvoy/archive/internal/usecase"
)

// --- mocks ---

type mockContentRepo struct {
	inserted []domain.ContentRecord
	lastList domain.ListQuery
}

func (m *mockContentRepo) Insert(ctx context.Context, rec domain.ContentRecord) (string, error) {
	m.inserted = append(m.inserted, rec)
	return fmt.Sprintf("id-%d", len(m.inserted)), nil
}

func (m *mockContentRepo) Get(ctx context.Context, id string) (domain.ContentRecord, error) {
	if id == "missing" {
		return domain.ContentRecord{}, domain.NotFoundError{Resource: "content item"}
	}
	return domain.ContentRecord{ID: id, Category: archive.CategoryLetter, Title: "Letter home"}, nil
}

func (m *mockContentRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.ContentRecord, error) {
	m.lastList = q
	return []domain.ContentRecord{{Category: archive.CategoryLetter, Title: "Letter home"}}, nil
}

func (m *mockContentRepo) Timeline(ctx context.Context) ([]domain.TimelineYear, error) {
	return []domain.TimelineYear{{Year: 1968}}, nil
}

type mockBucketStore struct {
	buckets []string
}

func (m *mockBucketStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	m.buckets = append(m.buckets, bucket)
	return "https://cdn.example.com/" + bucket + "/" + key, nil
}

func (m *mockBucketStore) Remove(ctx context.Context, bucket, key string) error { return nil }

type stubStreamer struct{}

func (s *stubStreamer) Realtime(ctx context.Context, input <-chan []string, output chan<- archive.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case cats := <-input:
			event := archive.Event{ID: "live-1", Category: "letter"}
			if len(cats) > 0 {
				event.Category = cats[0]
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func newTestServer(repo *mockContentRepo, store *mockBucketStore) *echo.Echo {
	submitUC := usecase.NewSubmitUsecase(repo, usecase.NewAssetRouter(store), nil)
	queryUC := usecase.NewQueryUsecase(repo)
	h := NewHandler(submitUC, queryUC, nil)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

// --- tests ---

func TestHandleMemory(t *testing.T) {
	repo := &mockContentRepo{}
	e := newTestServer(repo, &mockBucketStore{})

	body, _ := json.Marshal(memoryRequest{
		Type:            "story",
		Title:           "The day we arrived",
		ContentText:     "It was raining in San José...",
		ContentDate:     "1968-06-14",
		PeopleMentioned: "Everett, Emma Gene",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memories", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert")
	}
	rec := repo.inserted[0]
	if rec.Category != archive.CategoryAnecdote {
		t.Errorf("category = %q, want anecdote", rec.Category)
	}
	if rec.Provenance.Channel != archive.ChannelForm {
		t.Errorf("channel = %q", rec.Provenance.Channel)
	}
	if len(rec.PeopleMentioned) != 2 {
		t.Errorf("peopleMentioned = %v", rec.PeopleMentioned)
	}
	if rec.OccurredOn == nil || rec.OccurredOn.Year() != 1968 {
		t.Errorf("occurredOn = %v", rec.OccurredOn)
	}
}

func TestHandleMemoryMissingTitle(t *testing.T) {
	repo := &mockContentRepo{}
	e := newTestServer(repo, &mockBucketStore{})

	body, _ := json.Marshal(memoryRequest{Type: "story"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memories", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("record persisted despite validation failure")
	}
}

func TestHandleContributionWithFile(t *testing.T) {
	repo := &mockContentRepo{}
	store := &mockBucketStore{}
	e := newTestServer(repo, store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("type", "photo")
	_ = w.WriteField("title", "Arrival day")
	fw, _ := w.CreateFormFile("file", "photo.jpg")
	_, _ = fw.Write([]byte("jpeg bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contributions", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}
	if len(store.buckets) != 1 || store.buckets[0] != archive.BucketPhotos {
		t.Fatalf("expected one write to photos, got %v", store.buckets)
	}
	if repo.inserted[0].Asset.Kind != domain.AssetImage {
		t.Errorf("asset kind = %q", repo.inserted[0].Asset.Kind)
	}
	if repo.inserted[0].Provenance.Channel != archive.ChannelUpload {
		t.Errorf("channel = %q", repo.inserted[0].Provenance.Channel)
	}
}

func TestHandleContributionBadFilePart(t *testing.T) {
	repo := &mockContentRepo{}
	e := newTestServer(repo, &mockBucketStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contributions", strings.NewReader("not a multipart body"))
	req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=xyz")
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", res.Code, res.Body.String())
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("record persisted despite broken file part")
	}
}

func TestHandleRecordingRequiresAudio(t *testing.T) {
	e := newTestServer(&mockContentRepo{}, &mockBucketStore{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("title", "My story")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recordings", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
}

func TestHandleItemsNormalizesFilter(t *testing.T) {
	repo := &mockContentRepo{}
	e := newTestServer(repo, &mockBucketStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?type=letters", nil)
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if repo.lastList.Category != archive.CategoryLetter {
		t.Errorf("category filter = %q, want letter", repo.lastList.Category)
	}
	if !repo.lastList.Descending {
		t.Errorf("expected descending order by default")
	}
}

func TestHandleItemNotFound(t *testing.T) {
	e := newTestServer(&mockContentRepo{}, &mockBucketStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/missing", nil)
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestHandleLiveStreamsAndSurvivesDisconnect(t *testing.T) {
	repo := &mockContentRepo{}
	submitUC := usecase.NewSubmitUsecase(repo, usecase.NewAssetRouter(&mockBucketStore{}), nil)
	queryUC := usecase.NewQueryUsecase(repo)
	h := NewHandler(submitUC, queryUC, &stubStreamer{})

	e := echo.New()
	h.RegisterRoutes(e)
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	if err := conn.WriteJSON(map[string]any{"type": "listen", "categories": []string{"letters"}}); err != nil {
		t.Fatalf("write listen: %v", err)
	}

	var event archive.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Category != archive.CategoryLetter {
		t.Errorf("category = %q, want normalized letter", event.Category)
	}

	// Drop the connection without a close handshake; the handler has to
	// wind down without taking the server with it.
	conn.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("server unhealthy after live disconnect: %d", res.Code)
	}
}

func TestHandleTimeline(t *testing.T) {
	e := newTestServer(&mockContentRepo{}, &mockBucketStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil)
	res := httptest.NewRecorder()

	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var years []domain.TimelineYear
	if err := json.Unmarshal(res.Body.Bytes(), &years); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(years) != 1 || years[0].Year != 1968 {
		t.Errorf("timeline = %+v", years)
	}
}
