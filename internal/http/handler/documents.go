package handler

import (
	"github.com/gofiber/fiber/v2"

	"kycapi/internal/service"
)

// GetMyProfile returns the caller's profile, creating it on first access.
//
// @Summary Get own KYC profile
// @Tags kyc
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Router /api/v1/kyc/profile [get]
func GetMyProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		view, err := svc.GetProfile(c.UserContext(), a.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// ListMyDocuments lists the caller's active documents.
//
// @Summary List own documents
// @Tags kyc
// @Security BearerAuth
// @Success 200 {object} service.DocumentListResult
// @Router /api/v1/kyc/documents [get]
func ListMyDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		docs, err := svc.ListActiveByOwner(c.UserContext(), a.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(service.DocumentListResult{Items: docs, Total: len(docs)})
	}
}

// UploadDocument accepts multipart/form-data with the file under "file".
//
// @Summary Upload an identity document
// @Tags kyc
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "document file"
// @Param document_type formData string true "pan_card, aadhar_card, passport, driving_license, voter_id or other"
// @Param document_name formData string false "display name"
// @Param document_number formData string false "document number"
// @Param expiry_date formData string false "YYYY-MM-DD"
// @Success 201 {object} model.IdentityDocument
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /api/v1/kyc/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		var form uploadForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid form data")
		}
		if err := validate.Struct(form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}
		expiry, err := parseDate(form.ExpiryDate)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "expiry_date must be a date in 2006-01-02 format")
		}

		upload, closeFile, err := fileUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFile()

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			OwnerID:        a.ID,
			DocumentType:   form.DocumentType,
			DocumentName:   form.DocumentName,
			DocumentNumber: form.DocumentNumber,
			ExpiryDate:     expiry,
			File:           upload,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument patches metadata and optionally replaces the file (multipart).
//
// @Summary Update a document
// @Tags kyc
// @Security BearerAuth
// @Accept multipart/form-data
// @Param id path string true "document id"
// @Param file formData file false "replacement file"
// @Success 200 {object} model.IdentityDocument
// @Router /api/v1/kyc/documents/{id} [patch]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		mf, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "multipart form required")
		}

		form := updateForm{
			DocumentName:   formValue(mf, "document_name"),
			DocumentNumber: formValue(mf, "document_number"),
			ExpiryDate:     formValue(mf, "expiry_date"),
		}
		if err := validate.Struct(form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		in := service.UpdateInput{
			DocumentID: id,
			OwnerID:    a.ID,
			Patch: service.DocumentPatch{
				DocumentName:   form.DocumentName,
				DocumentNumber: form.DocumentNumber,
			},
		}
		if form.ExpiryDate != nil {
			if in.Patch.ExpiryDate, err = parseDate(*form.ExpiryDate); err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "expiry_date must be a date in 2006-01-02 format")
			}
		}
		if files := mf.File["file"]; len(files) > 0 {
			upload, closeFile, err := fileUpload(files[0])
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer closeFile()
			in.File = &upload
		}

		doc, err := svc.Update(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument soft-deletes one of the caller's documents.
//
// @Summary Delete a document
// @Tags kyc
// @Security BearerAuth
// @Param id path string true "document id"
// @Success 204
// @Router /api/v1/kyc/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id, a.ID, a.ID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DocumentFileURL returns a presigned download URL.
//
// @Summary Download URL for a document file
// @Tags kyc
// @Security BearerAuth
// @Param id path string true "document id"
// @Success 200 {object} map[string]string
// @Router /api/v1/kyc/documents/{id}/file [get]
func DocumentFileURL(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.FileURL(c.UserContext(), id, a.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}
