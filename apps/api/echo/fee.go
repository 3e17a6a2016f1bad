package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/fee"
	"github.com/blacklytning/alc/core/student"
)

type (
	feeApi struct {
		svc *fee.Service
	}

	// LedgerResponse is the per-student fee status view plus the suggested
	// late fee for the collection form.
	LedgerResponse struct {
		Ledger           fee.Ledger      `json:"ledger"`
		SuggestedLateFee decimal.Decimal `json:"suggested_late_fee"`
	}
)

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fee.Service) {
	api := feeApi{svc: svc}

	fg := g.Group("/fees", jwt)
	fg.GET("", api.query)
	fg.GET("/student/:id", api.ledger)
	fg.GET("/payments/student/:id", api.payments)
	fg.POST("/payment", api.recordPayment)
}

func (api *feeApi) query(ctx echo.Context) error {
	rows, err := api.svc.QueryAllLedgers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying fee ledgers")
	}
	if rows == nil {
		rows = []fee.StudentLedger{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *feeApi) ledger(ctx echo.Context) error {
	led, err := api.svc.Ledger(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "computing fee ledger")
	}
	return ctx.JSON(http.StatusOK, LedgerResponse{
		Ledger:           led,
		SuggestedLateFee: fee.SuggestLateFee(led),
	})
}

func (api *feeApi) payments(ctx echo.Context) error {
	payments, err := api.svc.Payments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []fee.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *feeApi) recordPayment(ctx echo.Context) error {
	var data fee.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	pay, err := api.svc.RecordPayment(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, pay)
}
