package handler

import (
	"github.com/gofiber/fiber/v2"

	"kycapi/internal/service"
)

// ListForVerification is the admin review queue, filtered by ?status and ?document_type
// and paginated with ?limit and ?offset.
//
// @Summary List documents for verification
// @Tags admin
// @Security BearerAuth
// @Param status query string false "pending, verified, rejected or expired"
// @Param document_type query string false "document type"
// @Param limit query int false "page size (default 20, max 100)"
// @Param offset query int false "offset"
// @Success 200 {object} service.DocumentListResult
// @Router /api/v1/admin/kyc/documents [get]
func ListForVerification(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit", "20")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := queryInt(c, "offset", "0")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListForVerification(c.UserContext(), service.ListFilter{
			Status:       c.Query("status"),
			DocumentType: c.Query("document_type"),
			Limit:        limit,
			Offset:       offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// VerifyDocument records an admin decision on one document.
//
// @Summary Verify, reject or expire a document
// @Tags admin
// @Security BearerAuth
// @Param id path string true "document id"
// @Param body body verifyRequest true "decision"
// @Success 200 {object} model.IdentityDocument
// @Failure 409 {object} errorPayload
// @Router /api/v1/admin/kyc/documents/{id}/verify [post]
func VerifyDocument(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req verifyRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		doc, err := svc.VerifyDocument(c.UserContext(), service.VerifyInput{
			DocumentID: id,
			VerifiedBy: a.ID,
			Decision:   req.Decision,
			Remarks:    req.Remarks,
			Override:   req.Override,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// BulkVerify applies one decision to many documents. Per-item failures are in the body;
// the call itself succeeds.
//
// @Summary Bulk document decision
// @Tags admin
// @Security BearerAuth
// @Param body body bulkVerifyRequest true "decision and ids"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/kyc/documents/bulk-verify [post]
func BulkVerify(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		var req bulkVerifyRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		results, err := svc.BulkVerify(c.UserContext(), service.BulkVerifyInput{
			DocumentIDs: req.DocumentIDs,
			VerifiedBy:  a.ID,
			Decision:    req.Decision,
			Remarks:     req.Remarks,
			Override:    req.Override,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		succeeded := 0
		for _, r := range results {
			if r.Success {
				succeeded++
			}
		}
		return c.JSON(fiber.Map{
			"results":   results,
			"succeeded": succeeded,
			"failed":    len(results) - succeeded,
		})
	}
}

// RestoreDocument reactivates a soft-deleted document.
//
// @Summary Restore a deleted document
// @Tags admin
// @Security BearerAuth
// @Param id path string true "document id"
// @Success 200 {object} model.IdentityDocument
// @Router /api/v1/admin/kyc/documents/{id}/restore [post]
func RestoreDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Restore(c.UserContext(), id, a.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// AppendDraftComment adds a reviewer note.
//
// @Summary Append a review note
// @Tags admin
// @Security BearerAuth
// @Param id path string true "document id"
// @Param body body draftRequest true "note"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/admin/kyc/documents/{id}/drafts [post]
func AppendDraftComment(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req draftRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		history, err := svc.AppendDraftComment(c.UserContext(), id, a.ID, req.Comment)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": history})
	}
}

// GetDraftHistory lists reviewer notes in insertion order.
//
// @Summary Review notes of a document
// @Tags admin
// @Security BearerAuth
// @Param id path string true "document id"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/kyc/documents/{id}/drafts [get]
func GetDraftHistory(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		history, err := svc.GetDraftHistory(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": history})
	}
}

// GetOwnerProfile returns any owner's profile view.
//
// @Summary Get a profile
// @Tags admin
// @Security BearerAuth
// @Param ownerId path string true "owner id"
// @Success 200 {object} service.ProfileView
// @Router /api/v1/admin/kyc/profiles/{ownerId} [get]
func GetOwnerProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.GetProfile(c.UserContext(), c.Params("ownerId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// VerifyProfile manually verifies a profile whose required documents are all verified.
//
// @Summary Verify a profile
// @Tags admin
// @Security BearerAuth
// @Param ownerId path string true "owner id"
// @Param body body verifyProfileRequest false "remarks"
// @Success 200 {object} model.Profile
// @Router /api/v1/admin/kyc/profiles/{ownerId}/verify [post]
func VerifyProfile(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		var req verifyProfileRequest
		if len(c.Body()) > 0 {
			if ok, err := bindJSON(c, &req); !ok {
				return err
			}
		}
		p, err := svc.VerifyProfile(c.UserContext(), c.Params("ownerId"), a.ID, req.Remarks)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// RejectProfile rejects a profile with a reason and optional per-document details.
//
// @Summary Reject a profile
// @Tags admin
// @Security BearerAuth
// @Param ownerId path string true "owner id"
// @Param body body rejectProfileRequest true "reason"
// @Success 200 {object} model.Profile
// @Router /api/v1/admin/kyc/profiles/{ownerId}/reject [post]
func RejectProfile(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		var req rejectProfileRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		p, err := svc.RejectProfile(c.UserContext(), c.Params("ownerId"), service.RejectInput{
			RejectedBy: a.ID,
			Reason:     req.Reason,
			Details:    req.details(),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// ExportKYCData returns the owner's full KYC record.
//
// @Summary Export a profile
// @Tags admin
// @Security BearerAuth
// @Param ownerId path string true "owner id"
// @Success 200 {object} service.KYCExport
// @Router /api/v1/admin/kyc/profiles/{ownerId}/export [get]
func ExportKYCData(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.ExportKYCData(c.UserContext(), c.Params("ownerId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	}
}

// ExpiringProfiles lists verified profiles expiring within ?days (default 30).
//
// @Summary Profiles expiring soon
// @Tags admin
// @Security BearerAuth
// @Param days query int false "window in days (1-365)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/kyc/profiles/expiring [get]
func ExpiringProfiles(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days, err := queryInt(c, "days", "30")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DAYS", "invalid days")
		}
		profiles, err := svc.ExpiringProfiles(c.UserContext(), days)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": profiles, "total": len(profiles)})
	}
}

// Statistics returns document and profile counters.
//
// @Summary KYC statistics
// @Tags admin
// @Security BearerAuth
// @Success 200 {object} model.Statistics
// @Router /api/v1/admin/kyc/statistics [get]
func Statistics(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Statistics(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}
