package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fanloop/internal/controller"
	"github.com/qdm12/reprint"
)

func registerStatusEndpoints(rest *echo.Echo, fanController controller.FanController) {
	group := rest.Group("/status")

	group.GET("/", func(c echo.Context) error {
		return getStatus(c, fanController)
	})
}

// returns a snapshot of the most recent control cycle
func getStatus(c echo.Context, fanController controller.FanController) error {
	data := reprint.This(fanController.State())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
