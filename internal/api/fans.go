package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fanloop/internal/fans"
)

// FanInfo is the live view of the controlled fan served by the API.
type FanInfo struct {
	Id        string   `json:"id"`
	Pwm       int      `json:"pwm"`
	Rpm       *int     `json:"rpm,omitempty"`
	RpmAvg    *float64 `json:"rpmAvg,omitempty"`
	NeverStop bool     `json:"neverStop"`
}

func registerFanEndpoints(rest *echo.Echo, fan fans.Fan) {
	group := rest.Group("/fan")

	group.GET("/", func(c echo.Context) error {
		return getFan(c, fan)
	})
}

// returns the fan managed by this daemon, including its current pwm and rpm
func getFan(c echo.Context, fan fans.Fan) error {
	info := FanInfo{
		Id:        fan.GetId(),
		NeverStop: fan.ShouldNeverStop(),
	}

	pwm, err := fan.GetPwm()
	if err != nil {
		return returnError(c, err)
	}
	info.Pwm = pwm

	if fan.Supports(fans.FeatureRpmSensor) {
		if rpm, err := fan.GetRpm(); err == nil {
			info.Rpm = &rpm
			rpmAvg := fan.GetRpmAvg()
			info.RpmAvg = &rpmAvg
		}
	}

	return c.JSONPretty(http.StatusOK, info, indentationChar)
}
