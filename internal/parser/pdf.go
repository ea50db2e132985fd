package parser

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

const maxPDFTextBytes = 100 * 1024

// Lines carrying both a date-like token and a monetary amount are treated
// as statement transaction rows.
var (
	pdfDatePattern = regexp.MustCompile(
		`(?i)` +
			`(?:\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})` +
			`|(?:\d{4}[/\-]\d{2}[/\-]\d{2})` +
			`|(?:(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Okt|Oct|Nov|Des|Dec)[a-z]*\.?\s+\d{1,2})` +
			`|(?:\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Okt|Oct|Nov|Des|Dec)[a-z]*\.?)`,
	)
	pdfAmountPattern = regexp.MustCompile(
		`-?\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{2})?` +
			`|\d+[.,]\d{2}`,
	)
)

// ExtractStatementText pulls plain text out of a PDF e-statement, capped
// at 100KB. The pdf library panics on some malformed documents, so the
// whole extraction runs under recover and reports the panic as an error.
func ExtractStatementText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Parser] recovered from PDF panic: %v", r)
			err = fmt.Errorf("panic during PDF extraction: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, maxPDFTextBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return string(textBytes), nil
}

// StatementLines filters extracted statement text down to the lines that
// look like transaction rows.
func StatementLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if pdfDatePattern.MatchString(trimmed) && pdfAmountPattern.MatchString(trimmed) {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// ParseStatement extracts a PDF e-statement and runs each transaction row
// through the generic parser. Rows that yield no amount are dropped.
func ParseStatement(data []byte) ([]*model.ParsedTransaction, error) {
	text, err := ExtractStatementText(data)
	if err != nil {
		return nil, err
	}

	parsed := make([]*model.ParsedTransaction, 0)
	for _, line := range StatementLines(text) {
		tx := Generic(line)
		if tx.Amount == 0 {
			continue
		}
		parsed = append(parsed, tx)
	}
	return parsed, nil
}
