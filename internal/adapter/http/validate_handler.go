package http

import (
	"errors"
	"net/http"

	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
	"validator-engine/internal/usecase/validation"

	"github.com/labstack/echo/v4"
)

type ValidateHandler struct{ uc *validation.Usecase }

func NewValidateHandler(uc *validation.Usecase) *ValidateHandler { return &ValidateHandler{uc: uc} }

// validateReq mirrors the upstream submission payload. Field names follow
// the existing wire contract (including "rullset").
type validateReq struct {
	SubmissionID string                 `json:"submissionId" validate:"required,objid"`
	LoanID       string                 `json:"loanId" validate:"required"`
	TenantID     string                 `json:"tenantId" validate:"required"`
	RuleSetID    string                 `json:"rullsetid"`
	RuleDoc      map[string]any         `json:"rullset" validate:"required"`
	LoanDetails  submission.LoanDetails `json:"loanDetails"`
	GPS          submission.GPSPoint    `json:"gps"`

	SanctionDate          *string  `json:"sanctionDate"`
	ExpectedInvoiceAmount *float64 `json:"expectedInvoiceAmount"`

	Media []submission.MediaItem `json:"media"`
}

func (r *validateReq) toSubmission() *submission.Submission {
	return &submission.Submission{
		SubmissionID:          r.SubmissionID,
		LoanID:                r.LoanID,
		TenantID:              r.TenantID,
		RuleSetID:             r.RuleSetID,
		RuleDoc:               r.RuleDoc,
		LoanDetails:           r.LoanDetails,
		GPS:                   r.GPS,
		SanctionDate:          r.SanctionDate,
		ExpectedInvoiceAmount: r.ExpectedInvoiceAmount,
		Media:                 r.Media,
	}
}

// Validate runs the full pipeline for one submission and returns
// {submissionId, aiSummary}. A missing rule document or missing "rules" key
// is a client error and never reaches the ledger.
func (h *ValidateHandler) Validate(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	result, err := h.uc.Validate(c.Request().Context(), req.toSubmission())
	if err != nil {
		if errors.Is(err, ruleset.ErrMissingRules) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "validation engine failure"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"submissionId": req.SubmissionID,
		"aiSummary":    result,
	})
}
