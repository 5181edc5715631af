// Package kyc holds the pure KYC rules: completion math, the profile status
// state machine, slot bookkeeping and document version history. Nothing here
// performs I/O; services call these functions explicitly after every mutation.
package kyc

import (
	"math"

	"kycapi/internal/model"
)

// ComputeCompletion returns round(submittedRequired/required*100), or 100 when no slot is required.
func ComputeCompletion(r model.RequiredDocuments) int {
	required, submitted := 0, 0
	for _, s := range r.Slots() {
		if !s.IsRequired {
			continue
		}
		required++
		if s.IsSubmitted {
			submitted++
		}
	}
	if required == 0 {
		return 100
	}
	return int(math.Round(float64(submitted) / float64(required) * 100))
}

// DisplayCompletion computes the profile-page metric from active documents.
// At most one "other" document counts regardless of how many exist.
func DisplayCompletion(docs []model.IdentityDocument) model.DisplayCompletion {
	var dc model.DisplayCompletion
	for _, d := range docs {
		if !d.IsActive {
			continue
		}
		switch {
		case d.DocumentType == model.DocumentTypePAN:
			dc.PanUploaded = true
		case d.DocumentType == model.DocumentTypeAadhar:
			dc.AadharUploaded = true
		default:
			dc.OtherUploaded = true
		}
	}
	for _, ok := range []bool{dc.PanUploaded, dc.AadharUploaded, dc.OtherUploaded} {
		if ok {
			dc.UploadedCount++
		}
	}
	dc.PercentUploaded = int(math.Round(float64(dc.UploadedCount) / 3 * 100))
	return dc
}
