package http

import (
	"net/http"

	ledgeruc "validator-engine/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

type LedgerHandler struct{ svc *ledgeruc.Service }

func NewLedgerHandler(svc *ledgeruc.Service) *LedgerHandler { return &LedgerHandler{svc: svc} }

// Read returns the full chain in insertion order.
func (h *LedgerHandler) Read(c echo.Context) error {
	entries, err := h.svc.Entries(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "ledger unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// Verify replays the chain from genesis and reports integrity. A broken
// chain is a 200 with valid=false and the failing position, not an error.
func (h *LedgerHandler) Verify(c echo.Context) error {
	ok, badIndex, err := h.svc.VerifyChain(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "ledger unavailable"})
	}
	body := map[string]any{"valid": ok}
	if !ok {
		body["brokenAt"] = badIndex
	}
	return c.JSON(http.StatusOK, body)
}
