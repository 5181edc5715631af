package kyc

import "kycapi/internal/model"

// PushVersion appends e to history, dropping the oldest entries beyond limit.
// The input slice is not modified.
func PushVersion(history []model.VersionEntry, e model.VersionEntry, limit int) []model.VersionEntry {
	if limit <= 0 {
		limit = model.MaxPreviousVersions
	}
	out := make([]model.VersionEntry, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, e)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
