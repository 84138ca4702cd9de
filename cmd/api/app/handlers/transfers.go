package handlers

import (
	"net/http"
	"strconv"

	"github.com/exachain/ibc-transfer/pkg/store"
	"github.com/labstack/echo/v4"
)

type TransfersHandler struct {
	Store *store.Store
}

// e.GET("/transfers/latest", h.GetLatestTransfer)
func (h *TransfersHandler) GetLatestTransfer(c echo.Context) error {
	transfers, err := h.Store.LoadLatestNTransfers(c.Request().Context(), 1)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transfers[0])
}

// e.GET("/transfers/last/:number", h.GetLastNTransfers)
func (h *TransfersHandler) GetLastNTransfers(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "number must be a positive integer")
	}

	transfers, err := h.Store.LoadLatestNTransfers(c.Request().Context(), n)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transfers)
}

// e.GET("/transfers/hash/:hash", h.GetTransfer)
func (h *TransfersHandler) GetTransfer(c echo.Context) error {
	t, err := h.Store.LoadTransfer(c.Request().Context(), c.Param("hash"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

type transferQuery struct {
	Sender   string `json:"sender,omitempty"`
	Receiver string `json:"receiver,omitempty"`
	Channel  string `json:"channel,omitempty"`
}

// e.POST("/transfers/query", h.QueryTransfersByParams)
func (h *TransfersHandler) QueryTransfersByParams(c echo.Context) error {
	q := new(transferQuery)
	if err := c.Bind(q); err != nil {
		return err
	}

	transfers, err := h.Store.LoadTransfersByParams(c.Request().Context(), q.Sender, q.Receiver, q.Channel)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transfers)
}
