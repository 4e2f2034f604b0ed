package documents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"gorm.io/gorm"
)

// FormatDocumentNumber renders PREFIX/YEAR/SEQ with the sequence padded to
// three digits. Sequences past 999 keep their natural width.
func FormatDocumentNumber(docType enums.DocumentType, year, seq int) string {
	return fmt.Sprintf("%s/%d/%03d", docType.NumberPrefix(), year, seq)
}

// nextDocumentNumber computes the next number for (type prefix, year) inside
// the caller's transaction. The scan covers every existing number under the
// same prefix and year so deletions never cause a reissue below the max.
func nextDocumentNumber(tx *gorm.DB, docType enums.DocumentType, year int) (string, error) {
	prefix := fmt.Sprintf("%s/%d/", docType.NumberPrefix(), year)

	var numbers []string
	err := tx.Model(&models.Document{}).
		Where("document_number LIKE ?", prefix+"%").
		Pluck("document_number", &numbers).Error
	if err != nil {
		return "", fmt.Errorf("scanning document numbers: %w", err)
	}

	maxSeq := 0
	for _, number := range numbers {
		seq, ok := parseSequence(number, prefix)
		if ok && seq > maxSeq {
			maxSeq = seq
		}
	}

	return FormatDocumentNumber(docType, year, maxSeq+1), nil
}

func parseSequence(number, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(number, prefix)
	if !found {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
