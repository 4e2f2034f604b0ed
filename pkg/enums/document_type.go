package enums

import "fmt"

// DocumentType classifies a registration document.
type DocumentType string

const (
	DocumentTypeAgreement       DocumentType = "agreement"
	DocumentTypeSaleDeed        DocumentType = "sale_deed"
	DocumentTypeGiftDeed        DocumentType = "gift_deed"
	DocumentTypeMortgage        DocumentType = "mortgage"
	DocumentTypeLease           DocumentType = "lease"
	DocumentTypePowerOfAttorney DocumentType = "power_of_attorney"
	DocumentTypeRectification   DocumentType = "rectification"
	DocumentTypeOther           DocumentType = "other"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeAgreement,
	DocumentTypeSaleDeed,
	DocumentTypeGiftDeed,
	DocumentTypeMortgage,
	DocumentTypeLease,
	DocumentTypePowerOfAttorney,
	DocumentTypeRectification,
	DocumentTypeOther,
}

// Document numbers are formatted as PREFIX/YEAR/SEQ.
var documentNumberPrefixes = map[DocumentType]string{
	DocumentTypeAgreement:       "AGREEMENT",
	DocumentTypeSaleDeed:        "SALEDEED",
	DocumentTypeGiftDeed:        "GIFTDEED",
	DocumentTypeMortgage:        "MORTGAGE",
	DocumentTypeLease:           "LEASE",
	DocumentTypePowerOfAttorney: "POA",
	DocumentTypeRectification:   "RECT",
	DocumentTypeOther:           "DOC",
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// NumberPrefix returns the prefix used when generating document numbers.
func (d DocumentType) NumberPrefix() string {
	if prefix, ok := documentNumberPrefixes[d]; ok {
		return prefix
	}
	return documentNumberPrefixes[DocumentTypeOther]
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
