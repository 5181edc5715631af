package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kycapi/internal/http/middleware"
	"kycapi/internal/model"
	"kycapi/internal/storage"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json/form names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

type uploadForm struct {
	DocumentType   string `form:"document_type" validate:"required,max=32"`
	DocumentName   string `form:"document_name" validate:"max=255"`
	DocumentNumber string `form:"document_number" validate:"max=64"`
	ExpiryDate     string `form:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

type updateForm struct {
	DocumentName   *string `form:"document_name" validate:"omitempty,max=255"`
	DocumentNumber *string `form:"document_number" validate:"omitempty,max=64"`
	ExpiryDate     *string `form:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

type verifyRequest struct {
	Decision string `json:"decision" validate:"required,oneof=verified rejected expired"`
	Remarks  string `json:"remarks" validate:"max=1000"`
	Override bool   `json:"override"`
}

type bulkVerifyRequest struct {
	DocumentIDs []string `json:"document_ids" validate:"required,min=1,dive,required"`
	Decision    string   `json:"decision" validate:"required,oneof=verified rejected expired"`
	Remarks     string   `json:"remarks" validate:"max=1000"`
	Override    bool     `json:"override"`
}

type draftRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

type verifyProfileRequest struct {
	Remarks string `json:"remarks" validate:"max=1000"`
}

type rejectionDetailRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	Reason       string `json:"reason" validate:"max=1000"`
	Field        string `json:"field" validate:"max=64"`
}

type rejectProfileRequest struct {
	Reason  string                   `json:"reason" validate:"required,max=1000"`
	Details []rejectionDetailRequest `json:"details" validate:"dive"`
}

func (r rejectProfileRequest) details() []model.RejectionDetail {
	out := make([]model.RejectionDetail, 0, len(r.Details))
	for _, d := range r.Details {
		out = append(out, model.RejectionDetail{
			DocumentType: model.DocumentType(d.DocumentType),
			Reason:       d.Reason,
			Field:        d.Field,
		})
	}
	return out
}

// bindJSON decodes and validates the body. It writes the 400 response itself and
// reports false when the handler should stop.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "invalid request"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s long", field, fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date in %s format", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// actor returns the authenticated caller or a 401 fiber error.
func actor(c *fiber.Ctx) (middleware.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return middleware.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	return a, nil
}

// documentID validates the :id path parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt(c *fiber.Ctx, key, def string) (int, error) {
	return strconv.Atoi(c.Query(key, def))
}

func formValue(form *multipart.Form, key string) *string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		v := vals[0]
		return &v
	}
	return nil
}

func fileUpload(fh *multipart.FileHeader) (storage.FileUpload, func() error, error) {
	f, err := fh.Open()
	if err != nil {
		return storage.FileUpload{}, nil, err
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	return storage.FileUpload{
		Reader:       f,
		Size:         fh.Size,
		OriginalName: fh.Filename,
		MIMEType:     ct,
	}, f.Close, nil
}
