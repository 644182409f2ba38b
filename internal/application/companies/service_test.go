package companies

import (
	"context"
	"testing"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCompaniesTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}))
	return &Service{DB: db}
}

func TestCreateCompany_SlugFromName(t *testing.T) {
	svc := setupCompaniesTest(t)
	c, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Haul Right Trucking, Inc."})
	require.NoError(t, err)
	assert.Equal(t, "haul-right-trucking-inc", c.Slug)
}

func TestCreateCompany_SlugCollision(t *testing.T) {
	svc := setupCompaniesTest(t)
	first, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Acme Dirt"})
	require.NoError(t, err)
	second, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Acme Dirt"})
	require.NoError(t, err)
	assert.Equal(t, "acme-dirt", first.Slug)
	assert.Equal(t, "acme-dirt-1", second.Slug)
}

func TestCreateCompany_EmptyName(t *testing.T) {
	svc := setupCompaniesTest(t)
	_, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "  "})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListCompanies_OrderedByName(t *testing.T) {
	svc := setupCompaniesTest(t)
	for _, name := range []string{"Zeta Gravel", "Acme Dirt", "Midway Fill"} {
		_, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: name})
		require.NoError(t, err)
	}
	companies, err := svc.ListCompanies(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, companies, 3)
	assert.Equal(t, "Acme Dirt", companies[0].Name)
	assert.Equal(t, "Midway Fill", companies[1].Name)
	assert.Equal(t, "Zeta Gravel", companies[2].Name)
}

func TestListCompanies_SearchByName(t *testing.T) {
	svc := setupCompaniesTest(t)
	for _, name := range []string{"Zeta Gravel", "Acme Dirt", "Midway Fill"} {
		_, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: name})
		require.NoError(t, err)
	}
	companies, err := svc.ListCompanies(context.Background(), "grav")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Zeta Gravel", companies[0].Name)
}

func TestGetCompanyByID_Missing(t *testing.T) {
	svc := setupCompaniesTest(t)
	_, err := svc.GetCompanyByID(context.Background(), uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
