package companies

import (
	compsvc "dirtex-backend/internal/application/companies"
	"dirtex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *compsvc.Service
}

// GET /api/v1/companies/get-companies?search= — directory ordered by name.
func (h *Handlers) GetCompanies(c *fiber.Ctx) error {
	companies, err := h.Service.ListCompanies(c.Context(), c.Query("search"))
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Companies fetched successfully", companies, nil)
}

type createCompanyRequest struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// POST /api/v1/companies/create-company
func (h *Handlers) CreateCompany(c *fiber.Ctx) error {
	var req createCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	company, err := h.Service.CreateCompany(c.Context(), compsvc.CreateCompanyInput{
		Name:        req.Name,
		Industry:    req.Industry,
		Phone:       req.Phone,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.SuccessCreated(c, "Company created successfully", company, nil)
}
