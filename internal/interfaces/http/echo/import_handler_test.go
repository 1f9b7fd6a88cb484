package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/dev-noaman/arafatvisitor-host-import/internal/application/host"
	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
	httpecho "github.com/dev-noaman/arafatvisitor-host-import/internal/interfaces/http/echo"
)

type fakeImportUseCase struct {
	output domain.ImportSummary
	err    error
	gotIn  app.ImportHostsInput
	called bool
}

func (f *fakeImportUseCase) Execute(ctx context.Context, in app.ImportHostsInput) (domain.ImportSummary, error) {
	f.called = true
	f.gotIn = in
	if f.err != nil {
		return domain.ImportSummary{}, f.err
	}
	return f.output, nil
}

type fakeStartUseCase struct {
	output app.StartImportOutput
	err    error
}

func (f *fakeStartUseCase) Execute(ctx context.Context, in app.StartImportInput) (app.StartImportOutput, error) {
	if f.err != nil {
		return app.StartImportOutput{}, f.err
	}
	return f.output, nil
}

func newImportServer(importer app.ImportHosts, starter app.StartImport) *echo.Echo {
	e := echo.New()
	handler := httpecho.NewImportHandler(importer, starter)
	httpecho.RegisterRoutes(e, handler, nil)
	return e
}

func TestImportHostsHandlerSuccess(t *testing.T) {
	t.Parallel()

	importer := &fakeImportUseCase{output: domain.ImportSummary{
		TotalProcessed: 1,
		Inserted:       1,
		UsersCreated:   1,
		CreatedCredentials: []domain.CreatedCredential{{
			Name:     "Alice",
			Email:    "alice@acme.com",
			Password: "9f3a1c5e7b2d4086",
			Company:  "Acme",
		}},
	}}
	e := newImportServer(importer, &fakeStartUseCase{})

	body := []byte(`{"csv_content":"ID,Name,Company,Email Address,Phone Number,Location,Status\n,Alice,Acme,alice@acme.com,+97412345678,Barwa Towers,Active\n"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}

	data, ok := got["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", got["data"])
	}
	if data["inserted"] != float64(1) {
		t.Fatalf("unexpected inserted: %#v", data["inserted"])
	}
	credentials, ok := data["created_credentials"].([]any)
	if !ok || len(credentials) != 1 {
		t.Fatalf("unexpected credentials: %#v", data["created_credentials"])
	}
}

func TestImportHostsHandlerDryRunFlag(t *testing.T) {
	t.Parallel()

	importer := &fakeImportUseCase{}
	e := newImportServer(importer, &fakeStartUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts?validate=true", bytes.NewReader([]byte(`{"csv_content":"Name\n"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !importer.called || !importer.gotIn.DryRun {
		t.Fatalf("expected dry-run execution, got %+v", importer.gotIn)
	}
}

func TestImportHostsHandlerBadJSON(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImportUseCase{}, &fakeStartUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts", bytes.NewReader([]byte(`{"csv_content":`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHostsHandlerInvalidPayload(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImportUseCase{err: app.ErrInvalidImportPayload}, &fakeStartUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHostsHandlerUnreadableFile(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImportUseCase{err: app.ErrUnreadableFile}, &fakeStartUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts", bytes.NewReader([]byte(`{"xlsx_content":"AAAA"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHostsHandlerInternalError(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImportUseCase{err: errors.New("boom")}, &fakeStartUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts", bytes.NewReader([]byte(`{"csv_content":"Name\n"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestStartAsyncImportHandlerSuccess(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImportUseCase{}, &fakeStartUseCase{output: app.StartImportOutput{
		JobID:  "job-1",
		Status: "queued",
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts/async", bytes.NewReader([]byte(`{"source_path":"hosts.csv"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	data, ok := got["data"].(map[string]any)
	if !ok || data["job_id"] != "job-1" {
		t.Fatalf("unexpected payload: %#v", got)
	}
}

func TestStartAsyncImportHandlerInvalidSource(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImportUseCase{}, &fakeStartUseCase{err: app.ErrInvalidImportSource})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/hosts/async", bytes.NewReader([]byte(`{"source_path":"hosts.json"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
