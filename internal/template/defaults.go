package template

// Defaults returns the hand-authored template set. These are the starting
// point for a fresh registry and the recovery set for `templates refresh`.
func Defaults() map[string]*SupplierTemplate {
	templates := []*SupplierTemplate{
		{
			Code:              "ABBOTT",
			Name:              "Abbott Laboratories Limited",
			SheetIdentifier:   "abbott",
			ValidationMarkers: []string{"ABBOTT LABORATORIES LIMITED", "INVOICE"},
			ExclusionMarkers:  []string{"REMITTANCE ADVICE"},
			Patterns: map[string]string{
				"invoice_number":   `Invoice No\.?\s*(\d{7})`,
				"invoice_date":     `Invoice Date\s*(\d{2}/\d{2}/\d{4})`,
				"reference_number": `Account Ref No\.\s*(\d+)`,
				"pre_vat_total":    `Total Net Amount\s*([\d,]+\.\d{2})`,
				"total_amount":     `Invoice Total\s*([\d,]+\.\d{2})`,
			},
		},
		{
			Code:              "AJBELL",
			Name:              "AJ Bell Business Solutions Limited",
			SheetIdentifier:   "bell",
			ValidationMarkers: []string{"AJ Bell", "FEE INVOICE"},
			ExclusionMarkers:  []string{"REMITTANCE"},
			Patterns: map[string]string{
				"invoice_number":   `Invoice Number:\s*(\d{2}/\d{2}/\d{3})`,
				"invoice_date":     `(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})`,
				"reference_number": `Our Ref:\s*(CORN\d{4})`,
				"pre_vat_total":    `Total Fee:\s*£([\d,]+\.\d{2})`,
				"total_amount":     `Total Invoice:\s*£([\d,]+\.\d{2})`,
			},
		},
		{
			Code:              "ADEPT",
			Name:              "Adept Computer Support Ltd",
			SheetIdentifier:   "adept",
			ValidationMarkers: []string{"Adept Computer Support Ltd", "Invoice"},
			ExclusionMarkers:  []string{"REMITTANCE", "Statement"},
			Patterns: map[string]string{
				// The number is the five digits directly before the invoice
				// date; RE2 has no lookahead, so the date is matched and
				// discarded instead.
				"invoice_number":   `\b(\d{5})\b\s*\d{2}/\d{2}/\d{4}`,
				"invoice_date":     `\b(\d{2}/\d{2}/\d{4})\b`,
				"reference_number": `Serial:\s*(ITACS\d{4})`,
				"pre_vat_total":    `Sub Total\s*(\d+\.\d{2})`,
				"total_amount":     `Invoice Total\s*(\d+\.\d{2})`,
			},
		},
		{
			Code:              "ASH_WASTE",
			Name:              "ASH Waste Services Ltd",
			SheetIdentifier:   "ash waste",
			ValidationMarkers: []string{"ASH Waste Services Ltd"},
			ExclusionMarkers:  []string{"REMITTANCE", "Statement"},
			Patterns: map[string]string{
				"invoice_number":   `INV(\d+)_\d+\.pdf`,
				"invoice_date":     `\b(\d{2}/\d{2}/\d{4})\b`,
				"reference_number": `INV\d+_(\d+)\.pdf`,
				"pre_vat_total":    `VAT\s*£(\d+\.\d{2})`,
				"total_amount":     `£\d+\.\d{2}\s*£\d+\.\d{2}\s*£(\d+\.\d{2})`,
			},
			FilenameFields: []string{"invoice_number", "reference_number"},
		},
		{
			Code:              "ALLIANCE",
			Name:              "Alliance Healthcare (Distribution) Ltd",
			SheetIdentifier:   "alliance",
			ValidationMarkers: []string{"Alliance Healthcare", "STATEMENT"},
			ExclusionMarkers:  []string{"NO OUTSTANDING ITEMS", "SUPPRESS"},
			Patterns: map[string]string{
				"invoice_number":   `(\d+)_([A-Z0-9]+)_(\d{2}-\d{2}-\d{4})\.pdf`,
				"invoice_date":     `(\d{2}APR\d{2})\s+1`,
				"reference_number": `(\d+)_[A-Z0-9]+_\d{2}-\d{2}-\d{4}\.pdf`,
				"pre_vat_total":    `PAGE TOTAL\s+(\d+\.\d{2})`,
				"total_amount":     `INVOICE TOTAL\s+(\d+\.\d{2})`,
			},
			FilenameFields: []string{"invoice_number", "reference_number"},
		},
		{
			Code:              "VALLEY",
			Name:              "Valley Northern",
			SheetIdentifier:   "valley northern",
			ValidationMarkers: []string{"Valley Northern Ltd", "INVOICE FOR"},
			ExclusionMarkers:  []string{"STATEMENT", "CREDIT NOTE"},
			Patterns: map[string]string{
				"invoice_number":   `Invoice\s*Date\s*Invoice\s*No[\s\S]{0,200}?(\d{5,7})`,
				"invoice_date":     `Invoice\s*Date\s*Invoice\s*No[\s\S]{0,100}?(\d{2}/\d{2}/\d{4})`,
				"reference_number": `(?:Customer\s*Order\s*Number[\s\S]{0,200}?\([\s\S]*?([\w\-]+)\)|VN\d{5})`,
				"pre_vat_total":    `Sub\s*Total[\s\S]{0,50}?(\d+\.\d{2})`,
				"total_amount":     `(?:TOTAL\s*DUE\s*\(£\)|TOTAL\s*AMOUNT)[\s\S]{0,50}?(\d+\.\d{2})`,
			},
		},
	}

	out := make(map[string]*SupplierTemplate, len(templates))
	for _, tpl := range templates {
		tpl.HighConfidenceThreshold = DefaultHighConfidenceThreshold
		tpl.ReviewConfidenceThreshold = DefaultReviewConfidenceThreshold
		out[tpl.Code] = tpl
	}
	return out
}
