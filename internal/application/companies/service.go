package companies

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the counterparty directory: the selectable set of companies and
// the id validation used at fulfillment time.
type Service struct {
	DB *gorm.DB
}

// ListCompanies returns the directory ordered by name; search narrows by
// case-insensitive substring match.
func (s *Service) ListCompanies(ctx context.Context, search string) ([]domain.Company, error) {
	q := s.DB.WithContext(ctx).Order("name")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var companies []domain.Company
	if err := q.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *Service) GetCompanyByID(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	if err := s.DB.WithContext(ctx).Where("company_id = ?", companyID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Company not found")
		}
		return nil, err
	}
	return &company, nil
}

type CreateCompanyInput struct {
	Name        string
	Industry    string
	Phone       string
	Website     string
	Description string
}

func (s *Service) CreateCompany(ctx context.Context, in CreateCompanyInput) (*domain.Company, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	company := &domain.Company{
		Name:        in.Name,
		Industry:    in.Industry,
		Phone:       in.Phone,
		Website:     in.Website,
		Description: in.Description,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, in.Name)
		if err != nil {
			return err
		}
		company.Slug = slug
		return tx.Create(company).Error
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9\s-]`)
var spaces = regexp.MustCompile(`\s+`)
var dashes = regexp.MustCompile(`-+`)

// uniqueSlug derives a slug from the name and appends a counter while taken.
func uniqueSlug(tx *gorm.DB, name string) (string, error) {
	base := strings.ToLower(name)
	base = nonSlug.ReplaceAllString(base, "")
	base = spaces.ReplaceAllString(base, "-")
	base = dashes.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "company"
	}

	slug := base
	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&domain.Company{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = base + "-" + itoa(counter)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [12]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
