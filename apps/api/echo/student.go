package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.POST("", api.admit)
	sg.GET("/batches", api.queryBatches)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.PUT("/:id/credentials", api.setCredentials)
	sg.PUT("/:id/exam", api.setExamDetails)
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Clean()

	students, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) admit(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	std, err := api.svc.Admit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "admitting student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) queryBatches(ctx echo.Context) error {
	timings, err := api.svc.Batches(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying batch timings")
	}
	if timings == nil {
		timings = []string{}
	}
	return ctx.JSON(http.StatusOK, timings)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(orig, core.Validate); err != nil {
		return err
	}

	std, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) setCredentials(ctx echo.Context) error {
	var data student.LearnerCredentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LearnerCredentials")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	std, err := api.svc.SetLearnerCredentials(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting learner credentials")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) setExamDetails(ctx echo.Context) error {
	var data student.ExamDetails
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ExamDetails")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	std, err := api.svc.SetExamDetails(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting exam details")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
