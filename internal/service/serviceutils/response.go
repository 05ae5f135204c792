package serviceutils

import (
	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_data_bridge/internal/logger"
)

// APIResponse is the common response envelope.
type APIResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ResponseSuccess writes a success envelope with the given status code.
func ResponseSuccess(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, APIResponse{Message: message, Data: data})
}

// ResponseError logs the error and writes an error envelope. The
// underlying error is logged, never returned to the client.
func ResponseError(c echo.Context, code int, message string, err error) error {
	logger.ErrorLog(c.Request().Context(), message, err)
	return c.JSON(code, APIResponse{Message: message})
}
