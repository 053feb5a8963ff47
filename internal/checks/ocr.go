package checks

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// Tolerance when comparing the OCR'd invoice amount against the expected
// sanction amount.
const invoiceAmountTolerance = 5000.0

const ocrTextFeatureLimit = 500

// Amount-like token: 3 to 7 digit runs. The last one in the text is taken as
// the invoice total (totals print last on invoices).
var reAmount = regexp.MustCompile(`\b\d{3,7}\b`)

// Invoice verifies that a DOCUMENT item is present and, when the tenant asks
// for it, OCRs the first one and compares the extracted amount against the
// resolved expected amount.
type Invoice struct {
	Fetcher MediaFetcher
	Reader  TextReader
	Log     *slog.Logger
}

func (c Invoice) Run(ctx context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()
	res.SetFeature(check.FeatInvoicePresent, false)
	res.SetFeature(check.FeatInvoiceAmountOCR, nil)

	docs := sub.Documents()
	if len(docs) == 0 {
		res.AddFlag(check.FlagInvoiceMissing)
		return res
	}
	res.SetFeature(check.FeatInvoicePresent, true)

	if !rules.Document.InvoiceOCRMatchAmount && !rules.Document.InvoiceOCRMatchDate {
		return res
	}

	text, err := c.readFirst(ctx, docs[0])
	if err != nil {
		c.Log.Warn("invoice ocr failed",
			slog.String("file_key", docs[0].FileKey), slog.Any("error", err))
		res.AddFlag(check.FlagInvoiceOCRError)
		return res
	}
	if len(text) > ocrTextFeatureLimit {
		res.SetFeature(check.FeatInvoiceOCRText, text[:ocrTextFeatureLimit])
	} else {
		res.SetFeature(check.FeatInvoiceOCRText, text)
	}

	amounts := reAmount.FindAllString(text, -1)
	if len(amounts) == 0 {
		return res
	}
	ocrAmount, err := strconv.ParseFloat(amounts[len(amounts)-1], 64)
	if err != nil {
		return res
	}
	res.SetFeature(check.FeatInvoiceAmountOCR, ocrAmount)

	expected, ok := sub.ResolvedExpectedAmount()
	if ok && rules.Document.InvoiceOCRMatchAmount {
		diff := ocrAmount - expected
		if diff < 0 {
			diff = -diff
		}
		if diff > invoiceAmountTolerance {
			res.AddFlag(check.FlagInvoiceMismatch)
		}
	}
	return res
}

func (c Invoice) readFirst(ctx context.Context, m submission.MediaItem) (string, error) {
	path, cleanup, err := c.Fetcher.Fetch(ctx, m.FileKey)
	if err != nil {
		return "", err
	}
	defer cleanup()
	return c.Reader.ReadText(ctx, path)
}
