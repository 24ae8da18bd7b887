package handlers

import (
	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileRequest struct {
	FullName      string  `json:"full_name" validate:"required,min=3"`
	CPF           string  `json:"cpf" validate:"required,min=11,max=14"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required,len=2"`
	Neighborhood  string  `json:"neighborhood"`
	DetranNumber  string  `json:"detran_number" validate:"required"`
	DetranState   string  `json:"detran_state" validate:"required,len=2"`
	CNHCategory   string  `json:"cnh_category" validate:"omitempty,oneof=A B AB C D E"`
	VehicleType   string  `json:"vehicle_type" validate:"omitempty,oneof=Manual Automatico"`
	PricePerClass float64 `json:"price_per_class" validate:"gte=0"`
	Description   string  `json:"description" validate:"max=2000"`
	OwnVehicle    *bool   `json:"own_vehicle"`
}

func (h *Handlers) GetMyProfile(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	inst, err := h.svc.Instructors.Mine(c.UserContext(), p)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inst)
}

// SaveMyProfile creates or updates the profile and sends it back to review.
func (h *Handlers) SaveMyProfile(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	var req ProfileRequest
	if !h.bind(c, &req) {
		return nil
	}

	ownVehicle := true
	if req.OwnVehicle != nil {
		ownVehicle = *req.OwnVehicle
	}
	inst, err := h.svc.Instructors.SaveProfile(c.UserContext(), p, services.ProfileInput{
		FullName:      req.FullName,
		CPF:           req.CPF,
		Email:         req.Email,
		Phone:         req.Phone,
		City:          req.City,
		State:         req.State,
		Neighborhood:  req.Neighborhood,
		DetranNumber:  req.DetranNumber,
		DetranState:   req.DetranState,
		CNHCategory:   req.CNHCategory,
		VehicleType:   req.VehicleType,
		PricePerClass: req.PricePerClass,
		Description:   req.Description,
		OwnVehicle:    ownVehicle,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inst)
}

func (h *Handlers) UploadDocument(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	docType := models.DocumentType(c.Params("docType"))
	if !docType.Valid() {
		return h.respondError(c, services.ErrInvalidDocumentType)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A file is required."})
	}
	f, err := file.Open()
	if err != nil {
		return h.respondError(c, err)
	}
	defer f.Close()

	doc, err := h.svc.Instructors.UploadDocument(c.UserContext(), p, docType, file.Filename, f)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *Handlers) UploadAvatar(c *fiber.Ctx) error {
	return h.uploadPhoto(c, services.PhotoAvatar)
}

func (h *Handlers) UploadVehiclePhoto(c *fiber.Ctx) error {
	return h.uploadPhoto(c, services.PhotoVehicle)
}

func (h *Handlers) uploadPhoto(c *fiber.Ctx, kind services.PhotoKind) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A file is required."})
	}
	f, err := file.Open()
	if err != nil {
		return h.respondError(c, err)
	}
	defer f.Close()

	inst, err := h.svc.Instructors.UploadPhoto(c.UserContext(), p, kind, file.Filename, f)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inst)
}

// UploadSignature signs a direct upload into the caller's own folder.
func (h *Handlers) UploadSignature(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	if h.signer == nil {
		return h.respondError(c, services.ErrUploadsDisabled)
	}
	folder, err := h.svc.Instructors.UploadFolder(c.UserContext(), p)
	if err != nil {
		return h.respondError(c, err)
	}
	sig, err := h.signer.SignUpload(folder)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(sig)
}
