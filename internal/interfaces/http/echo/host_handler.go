package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/dev-noaman/arafatvisitor-host-import/internal/application/host"
)

type HostHandler struct {
	useCase app.GetHostByID
}

func NewHostHandler(useCase app.GetHostByID) *HostHandler {
	return &HostHandler{useCase: useCase}
}

func (h *HostHandler) GetHostByID(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context(), app.GetHostByIDInput{
		ID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidHostID) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_host_id",
				Message: "id must be a valid UUID",
			}})
		}
		if errors.Is(err, app.ErrHostNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "host not found",
			}})
		}

		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get host",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
