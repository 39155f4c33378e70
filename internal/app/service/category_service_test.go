package service

import (
	"testing"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewCategoryService(categoryRepo), testDB
}

func TestCategoryService_JenisCRUD(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	jenis := &model.Jenis{Name: "Roti Manis", NameEn: "Sweet Bread"}
	require.NoError(t, svc.CreateJenis(jenis))
	assert.NotZero(t, jenis.ID)

	err := svc.CreateJenis(&model.Jenis{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	jenis.Name = "Roti Manis Klasik"
	require.NoError(t, svc.UpdateJenis(jenis))

	listed, err := svc.ListJenis()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Roti Manis Klasik", listed[0].Name)

	err = svc.UpdateJenis(&model.Jenis{ID: 9999, Name: "Hantu"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	require.NoError(t, svc.DeleteJenis(jenis.ID))
	err = svc.DeleteJenis(jenis.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_DeleteJenis_RefusesWhenInUse(t *testing.T) {
	svc, testDB := setupCategoryServiceTest(t)

	jenis := &model.Jenis{Name: "Kue Kering"}
	require.NoError(t, svc.CreateJenis(jenis))

	product := &model.Product{Name: "Nastar", Price: 45000, JenisID: &jenis.ID}
	product.SetAvailableDays([]model.OrderDay{model.DaySaturday})
	require.NoError(t, testDB.Create(product).Error)

	err := svc.DeleteJenis(jenis.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)

	// Once the last product is gone the jenis can go too.
	require.NoError(t, testDB.Unscoped().Delete(product).Error)
	assert.NoError(t, svc.DeleteJenis(jenis.ID))
}

func TestCategoryService_SubJenis(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	jenis := &model.Jenis{Name: "Roti Tawar"}
	require.NoError(t, svc.CreateJenis(jenis))

	sub := &model.SubJenis{JenisID: jenis.ID, Name: "Gandum"}
	require.NoError(t, svc.CreateSubJenis(sub))

	// A sub jenis needs an existing parent.
	err := svc.CreateSubJenis(&model.SubJenis{JenisID: 9999, Name: "Yatim"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	// The parent link is fixed after creation.
	other := &model.Jenis{Name: "Donat"}
	require.NoError(t, svc.CreateJenis(other))

	update := &model.SubJenis{ID: sub.ID, JenisID: other.ID, Name: "Gandum Utuh"}
	require.NoError(t, svc.UpdateSubJenis(update))
	assert.Equal(t, jenis.ID, update.JenisID)

	subs, err := svc.ListSubJenis(jenis.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Gandum Utuh", subs[0].Name)

	require.NoError(t, svc.DeleteSubJenis(sub.ID))
	err = svc.DeleteSubJenis(sub.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
