package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/dev-noaman/arafatvisitor-host-import/internal/application/host"
)

type ImportHandler struct {
	importer app.ImportHosts
	starter  app.StartImport
}

type importHostsRequest struct {
	CSVContent  string `json:"csv_content"`
	XLSXContent string `json:"xlsx_content"`
}

type startImportRequest struct {
	SourcePath string `json:"source_path"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(importer app.ImportHosts, starter app.StartImport) *ImportHandler {
	return &ImportHandler{importer: importer, starter: starter}
}

// ImportHosts runs the synchronous pipeline and returns the full summary,
// including one-time credentials. `?validate=true` is a dry run.
func (h *ImportHandler) ImportHosts(c echo.Context) error {
	var req importHostsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.importer.Execute(c.Request().Context(), app.ImportHostsInput{
		CSVContent:  req.CSVContent,
		XLSXContent: req.XLSXContent,
		DryRun:      c.QueryParam("validate") == "true",
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidImportPayload) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_payload",
				Message: "exactly one of csv_content or xlsx_content is required",
			}})
		}
		if errors.Is(err, app.ErrUnreadableFile) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "unreadable_file",
				Message: "the uploaded file could not be parsed",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "import failed",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

// StartAsyncImport enqueues a background import of a previously uploaded file.
func (h *ImportHandler) StartAsyncImport(c echo.Context) error {
	var req startImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.starter.Execute(c.Request().Context(), app.StartImportInput{
		SourcePath: req.SourcePath,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidImportSource) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_source",
				Message: "source_path must be a .csv or .xlsx file",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to enqueue import job",
		}})
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}
