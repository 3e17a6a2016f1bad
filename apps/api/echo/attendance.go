package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/attendance"
)

type (
	attendanceApi struct {
		svc *attendance.Service
	}

	// MarkDayRequest is one batch's attendance submission for a day.
	MarkDayRequest struct {
		Marks []attendance.NewMark `json:"marks"`
	}
)

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("/mark", api.markDay)
	ag.GET("/by-date", api.dayHistory)
	ag.GET("/student/:id", api.studentHistory)
	ag.GET("/defaulters", api.defaulters)
	ag.POST("/defaulters/notify", api.notifyDefaulters)
}

func (api *attendanceApi) markDay(ctx echo.Context) error {
	var data MarkDayRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkDayRequest")
	}
	if len(data.Marks) == 0 {
		return core.NewValidationError(
			errors.New("no marks provided"),
			core.FieldError{Field: "marks", Error: "at least one mark is required"},
		)
	}

	marks, err := api.svc.MarkDay(ctx.Request().Context(), data.Marks)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, marks)
}

func (api *attendanceApi) dayHistory(ctx echo.Context) error {
	date := core.CleanString(ctx.QueryParam("date"))
	if date == "" {
		return core.NewValidationError(
			errors.New("missing date"),
			core.FieldError{Field: "date", Error: "date is required"},
		)
	}
	batch := core.CleanString(ctx.QueryParam("batch_timing"))
	status := core.CleanString(ctx.QueryParam("status"))

	rows, err := api.svc.DayHistory(ctx.Request().Context(), date, batch, status)
	if err != nil {
		return errors.Wrap(err, "querying day history")
	}
	if rows == nil {
		rows = []attendance.DayRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *attendanceApi) studentHistory(ctx echo.Context) error {
	marks, err := api.svc.StudentHistory(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying student history")
	}
	if marks == nil {
		marks = []attendance.Mark{}
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *attendanceApi) defaulters(ctx echo.Context) error {
	batch, threshold, err := defaulterParams(ctx)
	if err != nil {
		return err
	}

	defaulters, err := api.svc.ScanDefaulters(ctx.Request().Context(), batch, threshold)
	if err != nil {
		return errors.Wrap(err, "scanning defaulters")
	}
	return ctx.JSON(http.StatusOK, defaulters)
}

func (api *attendanceApi) notifyDefaulters(ctx echo.Context) error {
	batch, threshold, err := defaulterParams(ctx)
	if err != nil {
		return err
	}

	defaulters, err := api.svc.NotifyDefaulters(ctx.Request().Context(), batch, threshold)
	if err != nil {
		return errors.Wrap(err, "notifying defaulters")
	}
	return ctx.JSON(http.StatusOK, defaulters)
}

func defaulterParams(ctx echo.Context) (batch string, threshold int, err error) {
	batch = core.CleanString(ctx.QueryParam("batch_timing"))
	if raw := ctx.QueryParam("threshold"); raw != "" {
		n, aErr := strconv.Atoi(raw)
		if aErr != nil || n < 1 {
			return "", 0, core.NewValidationError(
				errors.New("invalid threshold"),
				core.FieldError{Field: "threshold", Error: "threshold must be a positive number"},
			)
		}
		threshold = n
	}
	return batch, threshold, nil
}
