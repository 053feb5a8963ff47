package checks_test

import (
	. "validator-engine/internal/checks"

	"context"
	"errors"
	"strings"
	"testing"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/submission"
	"validator-engine/internal/testutil/collabmock"
)

func invoiceSub(expectedAmount float64) *submission.Submission {
	return &submission.Submission{
		LoanDetails: submission.LoanDetails{SanctionAmount: &expectedAmount},
		Media: []submission.MediaItem{
			{Type: submission.TypeDocument, FileKey: "invoice.jpg"},
		},
	}
}

func ocrRules(t *testing.T, matchAmount bool) map[string]any {
	t.Helper()
	return map[string]any{
		"document_rules": map[string]any{
			"require_invoice":          true,
			"invoice_ocr_match_amount": matchAmount,
		},
	}
}

func TestInvoice_MissingDocument(t *testing.T) {
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: &collabmock.TextReader{}, Log: discardLogger()}

	res := c.Run(context.Background(), &submission.Submission{}, mustRules(t, ocrRules(t, true)))
	if !hasFlag(res, check.FlagInvoiceMissing) {
		t.Fatalf("flags = %v, want INVOICE_MISSING", res.Flags)
	}
	if res.Features[check.FeatInvoicePresent] != false {
		t.Fatalf("invoice present feature = %v, want false", res.Features[check.FeatInvoicePresent])
	}
}

func TestInvoice_PresenceOnlyWhenOCRNotRequested(t *testing.T) {
	reads := 0
	reader := &collabmock.TextReader{
		ReadTextFn: func(ctx context.Context, localPath string) (string, error) {
			reads++
			return "", nil
		},
	}
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: reader, Log: discardLogger()}

	res := c.Run(context.Background(), invoiceSub(50000), mustRules(t, ocrRules(t, false)))
	if len(res.Flags) != 0 {
		t.Fatalf("flags = %v, want none", res.Flags)
	}
	if reads != 0 {
		t.Fatalf("OCR ran %d times though no match rule is on", reads)
	}
}

func TestInvoice_AmountWithinTolerance(t *testing.T) {
	reader := &collabmock.TextReader{
		ReadTextFn: func(ctx context.Context, localPath string) (string, error) {
			return "INVOICE NO 482\nTRACTOR PARTS\nTOTAL 48500", nil
		},
	}
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: reader, Log: discardLogger()}

	res := c.Run(context.Background(), invoiceSub(50000), mustRules(t, ocrRules(t, true)))
	if hasFlag(res, check.FlagInvoiceMismatch) {
		t.Fatalf("flags = %v, 1500 difference is inside tolerance", res.Flags)
	}
	if res.Features[check.FeatInvoiceAmountOCR] != 48500.0 {
		t.Fatalf("ocr amount = %v, want 48500 (last amount-like token)", res.Features[check.FeatInvoiceAmountOCR])
	}
}

func TestInvoice_AmountMismatch(t *testing.T) {
	reader := &collabmock.TextReader{
		ReadTextFn: func(ctx context.Context, localPath string) (string, error) {
			return "TOTAL 12000", nil
		},
	}
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: reader, Log: discardLogger()}

	res := c.Run(context.Background(), invoiceSub(50000), mustRules(t, ocrRules(t, true)))
	if !hasFlag(res, check.FlagInvoiceMismatch) {
		t.Fatalf("flags = %v, want INVOICE_AMOUNT_MISMATCH", res.Flags)
	}
}

func TestInvoice_OCRFailureDegrades(t *testing.T) {
	reader := &collabmock.TextReader{
		ReadTextFn: func(ctx context.Context, localPath string) (string, error) {
			return "", errors.New("ocr backend down")
		},
	}
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: reader, Log: discardLogger()}

	res := c.Run(context.Background(), invoiceSub(50000), mustRules(t, ocrRules(t, true)))
	if !hasFlag(res, check.FlagInvoiceOCRError) {
		t.Fatalf("flags = %v, want INVOICE_OCR_ERROR", res.Flags)
	}
	if hasFlag(res, check.FlagInvoiceMismatch) {
		t.Fatalf("flags = %v, no amount comparison after an OCR failure", res.Flags)
	}
}

func TestInvoice_NoAmountTokenInText(t *testing.T) {
	reader := &collabmock.TextReader{
		ReadTextFn: func(ctx context.Context, localPath string) (string, error) {
			return "handwritten receipt, no printed figures", nil
		},
	}
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: reader, Log: discardLogger()}

	res := c.Run(context.Background(), invoiceSub(50000), mustRules(t, ocrRules(t, true)))
	if hasFlag(res, check.FlagInvoiceMismatch) {
		t.Fatalf("flags = %v, nothing to compare", res.Flags)
	}
	if res.Features[check.FeatInvoiceAmountOCR] != nil {
		t.Fatalf("ocr amount = %v, want null", res.Features[check.FeatInvoiceAmountOCR])
	}
}

func TestInvoice_LongOCRTextTruncatedInFeature(t *testing.T) {
	long := strings.Repeat("x", 700) + " 48500"
	reader := &collabmock.TextReader{
		ReadTextFn: func(ctx context.Context, localPath string) (string, error) {
			return long, nil
		},
	}
	c := Invoice{Fetcher: &collabmock.Fetcher{}, Reader: reader, Log: discardLogger()}

	res := c.Run(context.Background(), invoiceSub(50000), mustRules(t, ocrRules(t, true)))
	text := res.Features[check.FeatInvoiceOCRText].(string)
	if len(text) != OCRTextFeatureLimit {
		t.Fatalf("stored text length %d, want %d", len(text), OCRTextFeatureLimit)
	}
	if res.Features[check.FeatInvoiceAmountOCR] != 48500.0 {
		t.Fatalf("ocr amount = %v, amount must be parsed from the full text", res.Features[check.FeatInvoiceAmountOCR])
	}
}
