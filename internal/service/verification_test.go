package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycapi/internal/events"
	"kycapi/internal/kyc"
	"kycapi/internal/model"
)

func TestVerificationService_VerifyDocument_AutoPromotes(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	pan := env.upload(t, "o1", model.DocumentTypePAN)
	aadhar := env.upload(t, "o1", model.DocumentTypeAadhar)
	dl := env.upload(t, "o1", model.DocumentTypeDrivingLicense)

	env.verify(t, pan.ID)
	env.verify(t, aadhar.ID)
	assert.Equal(t, model.ProfileStatusPendingVerification, env.profile(t, "o1").Status)

	doc, err := env.verification.VerifyDocument(context.Background(), VerifyInput{
		DocumentID: dl.ID,
		VerifiedBy: "admin-2",
		Decision:   "verified",
		Remarks:    "  looks good ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusVerified, doc.Status)
	assert.Equal(t, "looks good", doc.VerificationRemarks)
	require.NotNil(t, doc.VerifiedBy)
	assert.Equal(t, "admin-2", *doc.VerifiedBy)

	p := env.profile(t, "o1")
	assert.Equal(t, model.ProfileStatusVerified, p.Status)
	assert.Equal(t, autoVerifiedRemarks, p.VerificationRemarks)
	require.NotNil(t, p.KYCExpiryDate)
	assert.Equal(t, fixedNow.Add(kyc.DefaultVerificationValidity), *p.KYCExpiryDate)
	require.NotNil(t, p.VerifiedBy)
	assert.Equal(t, "admin-2", *p.VerifiedBy)

	assert.Len(t, env.events.ofType(events.DocumentDecision), 3)
	assert.Len(t, env.events.ofType(events.ProfileVerified), 1)
}

func TestVerificationService_VerifyDocument_RejectionUnverifiesSlot(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	pan := env.upload(t, "o1", model.DocumentTypePAN)

	_, err := env.verification.VerifyDocument(context.Background(), VerifyInput{
		DocumentID: pan.ID, VerifiedBy: "admin-1", Decision: "rejected", Remarks: "blurry",
	})
	require.NoError(t, err)

	p := env.profile(t, "o1")
	assert.True(t, p.RequiredDocuments.PanCard.IsSubmitted)
	assert.False(t, p.RequiredDocuments.PanCard.IsVerified)
	assert.Equal(t, model.ProfileStatusInProgress, p.Status)
}

func TestVerificationService_VerifyDocument_Override(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	pan := env.upload(t, "o1", model.DocumentTypePAN)
	env.verify(t, pan.ID)

	in := VerifyInput{DocumentID: pan.ID, VerifiedBy: "admin-2", Decision: "rejected", Remarks: "forged"}
	_, err := env.verification.VerifyDocument(context.Background(), in)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "document already verified; set override to replace the decision", PublicMessage(err))

	in.Override = true
	doc, err := env.verification.VerifyDocument(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusRejected, doc.Status)
	assert.False(t, env.profile(t, "o1").RequiredDocuments.PanCard.IsVerified)

	decisions := env.events.ofType(events.DocumentDecision)
	require.Len(t, decisions, 2)
	assert.Equal(t, "false", decisions[0].Attributes[events.AttrOverride])
	assert.Equal(t, "true", decisions[1].Attributes[events.AttrOverride])
	assert.Equal(t, "verified", decisions[1].Attributes[events.AttrFromStatus])
}

func TestVerificationService_VerifyDocument_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	pan := env.upload(t, "o1", model.DocumentTypePAN)

	tests := []struct {
		name string
		in   VerifyInput
		want error
	}{
		{name: "pending is not a decision", in: VerifyInput{DocumentID: pan.ID, VerifiedBy: "a", Decision: "pending"}, want: ErrValidation},
		{name: "unknown decision", in: VerifyInput{DocumentID: pan.ID, VerifiedBy: "a", Decision: "approve"}, want: ErrValidation},
		{name: "missing verifier", in: VerifyInput{DocumentID: pan.ID, Decision: "verified"}, want: ErrValidation},
		{name: "missing document", in: VerifyInput{DocumentID: "nope", VerifiedBy: "a", Decision: "verified"}, want: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.verification.VerifyDocument(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	require.NoError(t, env.documents.Delete(context.Background(), pan.ID, "o1", "o1"))
	_, err := env.verification.VerifyDocument(context.Background(), VerifyInput{DocumentID: pan.ID, VerifiedBy: "a", Decision: "verified"})
	assert.ErrorIs(t, err, ErrNotFound, "deleted documents cannot be reviewed")
}

func TestVerificationService_BulkVerify_PartialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	a := env.upload(t, "o1", model.DocumentTypePAN)
	b := env.upload(t, "o2", model.DocumentTypePAN)
	c := env.upload(t, "o3", model.DocumentTypeAadhar)
	env.verify(t, c.ID)

	results, err := env.verification.BulkVerify(context.Background(), BulkVerifyInput{
		DocumentIDs: []string{a.ID, "missing", b.ID, a.ID, c.ID},
		VerifiedBy:  "admin-1",
		Decision:    "verified",
	})
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, BulkResult{DocumentID: a.ID, Success: true}, results[0])
	assert.Equal(t, BulkResult{DocumentID: "missing", Error: "document not found", ErrorKind: KindNotFound}, results[1])
	assert.Equal(t, BulkResult{DocumentID: b.ID, Success: true}, results[2])
	assert.Equal(t, BulkResult{DocumentID: a.ID, Error: "duplicate document id in request", ErrorKind: KindValidation}, results[3])
	assert.False(t, results[4].Success)
	assert.Equal(t, KindConflict, results[4].ErrorKind)

	assert.True(t, env.profile(t, "o1").RequiredDocuments.PanCard.IsVerified)
	assert.True(t, env.profile(t, "o2").RequiredDocuments.PanCard.IsVerified)
}

func TestVerificationService_BulkVerify_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.deps.BulkMaxItems = 2
	env.rebuild()

	tests := []struct {
		name    string
		in      BulkVerifyInput
		wantMsg string
	}{
		{name: "empty", in: BulkVerifyInput{VerifiedBy: "a", Decision: "verified"}, wantMsg: "at least one document id is required"},
		{name: "too many", in: BulkVerifyInput{DocumentIDs: []string{"1", "2", "3"}, VerifiedBy: "a", Decision: "verified"}, wantMsg: "at most 2 documents per request"},
		{name: "bad decision", in: BulkVerifyInput{DocumentIDs: []string{"1"}, VerifiedBy: "a", Decision: "maybe"}, wantMsg: "decision must be one of verified, rejected, expired"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := env.verification.BulkVerify(context.Background(), tc.in)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.wantMsg, PublicMessage(err))
		})
	}
}

func TestVerificationService_VerifyProfile(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()

	_, err := env.verification.VerifyProfile(context.Background(), "ghost", "admin-1", "")
	assert.ErrorIs(t, err, ErrNotFound)

	pan := env.upload(t, "o1", model.DocumentTypePAN)
	env.upload(t, "o1", model.DocumentTypeAadhar)
	env.verify(t, pan.ID)

	_, err = env.verification.VerifyProfile(context.Background(), "o1", "admin-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "all required documents must be verified first", PublicMessage(err))

	// Only the PAN and Aadhar slots stay required.
	p := env.profile(t, "o1")
	p.RequiredDocuments.AadharCard.IsVerified = true
	p.RequiredDocuments.OtherDocuments = nil
	require.NoError(t, env.profiles.Update(context.Background(), p))

	got, err := env.verification.VerifyProfile(context.Background(), "o1", "admin-1", " manual ")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileStatusVerified, got.Status)
	assert.Equal(t, "manual", got.VerificationRemarks)
	require.NotNil(t, got.KYCExpiryDate)
	assert.Equal(t, fixedNow.Add(kyc.DefaultVerificationValidity), *got.KYCExpiryDate)
}

func TestVerificationService_RejectProfile(t *testing.T) {
	env := newTestEnv(t)
	env.expectBlobs()
	env.upload(t, "o1", model.DocumentTypePAN)

	_, err := env.verification.RejectProfile(context.Background(), "o1", RejectInput{RejectedBy: "admin-1", Reason: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.verification.RejectProfile(context.Background(), "o1", RejectInput{
		RejectedBy: "admin-1",
		Reason:     "mismatch",
		Details:    []model.RejectionDetail{{DocumentType: "ssn", Reason: "x"}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.verification.RejectProfile(context.Background(), "ghost", RejectInput{RejectedBy: "admin-1", Reason: "mismatch"})
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := env.verification.RejectProfile(context.Background(), "o1", RejectInput{
		RejectedBy: "admin-1",
		Reason:     " name mismatch ",
		Details:    []model.RejectionDetail{{DocumentType: model.DocumentTypePAN, Reason: "spelling", Field: "name"}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProfileStatusRejected, p.Status)
	assert.Equal(t, "name mismatch", p.RejectionReason)
	require.Len(t, p.RejectionDetails, 1)
	assert.Equal(t, "name", p.RejectionDetails[0].Field)

	rejected := env.events.ofType(events.ProfileRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "name mismatch", rejected[0].Attributes[events.AttrReason])
}
