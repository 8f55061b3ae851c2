package services

import (
	"testing"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewOnePerUserProduct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewReviewService(db)
	_, err := svc.Create(callerFor(user), CreateReviewInput{ProductID: p.ID, Calificacion: 5})
	require.NoError(t, err)

	_, err = svc.Create(callerFor(user), CreateReviewInput{ProductID: p.ID, Calificacion: 3})
	require.Error(t, err)
	assert.Equal(t, apperr.BusinessRule, apperr.KindOf(err))
}

func TestReviewUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RolUsuario)

	svc := NewReviewService(db)
	_, err := svc.Create(callerFor(user), CreateReviewInput{ProductID: 999, Calificacion: 4})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestReviewAverageRounded(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, models.RolUsuario)
	b := seedUser(t, db, models.RolUsuario)
	c := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewReviewService(db)
	for u, calif := range map[*models.User]int{a: 5, b: 4, c: 4} {
		_, err := svc.Create(callerFor(u), CreateReviewInput{ProductID: p.ID, Calificacion: calif})
		require.NoError(t, err)
	}

	result, err := svc.ListByProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 4.3, result.Promedio) // 13/3 = 4.333… → 4.3
}

func TestReviewUpdateOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, models.RolUsuario)
	other := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewReviewService(db)
	review, err := svc.Create(callerFor(owner), CreateReviewInput{ProductID: p.ID, Calificacion: 2})
	require.NoError(t, err)

	calif := 4
	_, err = svc.Update(callerFor(other), review.ID, UpdateReviewInput{Calificacion: &calif})
	require.Error(t, err)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))

	updated, err := svc.Update(callerFor(owner), review.ID, UpdateReviewInput{Calificacion: &calif})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Calificacion)
}

func TestReviewDeleteOwnerOrAdmin(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)
	owner := seedUser(t, db, models.RolUsuario)
	other := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewReviewService(db)
	review, err := svc.Create(callerFor(owner), CreateReviewInput{ProductID: p.ID, Calificacion: 1})
	require.NoError(t, err)

	err = svc.Delete(callerFor(other), review.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))

	require.NoError(t, svc.Delete(callerFor(admin), review.ID))

	_, err = svc.Mine(callerFor(owner), p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
