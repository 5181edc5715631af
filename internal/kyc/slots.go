package kyc

import "kycapi/internal/model"

// SubmitSlot points the slot for docType at documentID, marking it submitted and unverified.
// "Other" documents fill the first free other slot, or append an optional one.
func SubmitSlot(r *model.RequiredDocuments, docType model.DocumentType, documentID string) {
	id := documentID
	switch docType {
	case model.DocumentTypePAN:
		submit(&r.PanCard, id)
		return
	case model.DocumentTypeAadhar:
		submit(&r.AadharCard, id)
		return
	}
	for i := range r.OtherDocuments {
		if r.OtherDocuments[i].Holds(id) || !r.OtherDocuments[i].IsSubmitted {
			submit(&r.OtherDocuments[i], id)
			return
		}
	}
	r.OtherDocuments = append(r.OtherDocuments, model.Slot{IsSubmitted: true, DocumentID: &id})
}

func submit(s *model.Slot, id string) {
	s.IsSubmitted = true
	s.IsVerified = false
	s.DocumentID = &id
}

// SetSlotVerified updates the verified flag of the slot holding documentID.
// It returns false when no slot references the document.
func SetSlotVerified(r *model.RequiredDocuments, documentID string, verified bool) bool {
	s := r.SlotFor(documentID)
	if s == nil {
		return false
	}
	s.IsVerified = verified
	return true
}

// ClearSlot removes documentID from whichever slot holds it.
// It returns false when no slot references the document.
func ClearSlot(r *model.RequiredDocuments, documentID string) bool {
	s := r.SlotFor(documentID)
	if s == nil {
		return false
	}
	s.Clear()
	r.OtherDocuments = compactOthers(r.OtherDocuments)
	return true
}

// compactOthers drops empty optional slots and moves submitted optional slots
// into empty required ones, so "at least one other document" keeps counting.
func compactOthers(others []model.Slot) []model.Slot {
	var required, optional []model.Slot
	for _, s := range others {
		switch {
		case s.IsRequired:
			required = append(required, s)
		case s.IsSubmitted:
			optional = append(optional, s)
		}
	}
	for i := range required {
		if required[i].IsSubmitted || len(optional) == 0 {
			continue
		}
		o := optional[0]
		optional = optional[1:]
		required[i].IsSubmitted = o.IsSubmitted
		required[i].IsVerified = o.IsVerified
		required[i].DocumentID = o.DocumentID
	}
	out := make([]model.Slot, 0, len(required)+len(optional))
	out = append(out, required...)
	return append(out, optional...)
}

// DanglingReferences lists slot document ids that resolve() cannot find.
func DanglingReferences(r model.RequiredDocuments, resolve func(id string) bool) []string {
	var out []string
	for _, s := range r.Slots() {
		if s.DocumentID != nil && !resolve(*s.DocumentID) {
			out = append(out, *s.DocumentID)
		}
	}
	return out
}
