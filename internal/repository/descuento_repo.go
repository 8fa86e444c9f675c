package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DescuentoRepository interface {
	Create(ctx context.Context, d *model.Descuento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Descuento, error)
	List(ctx context.Context) ([]model.Descuento, error)
	Update(ctx context.Context, d *model.Descuento) error
	// Delete removes the rule; product references are nulled by the FK
	// constraint and those products simply sell at list price again.
	Delete(ctx context.Context, id uuid.UUID) error
}

type descuentoRepo struct{ db *gorm.DB }

func NewDescuentoRepository(db *gorm.DB) DescuentoRepository { return &descuentoRepo{db: db} }

func (r *descuentoRepo) Create(ctx context.Context, d *model.Descuento) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *descuentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Descuento, error) {
	var d model.Descuento
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *descuentoRepo) List(ctx context.Context) ([]model.Descuento, error) {
	var descuentos []model.Descuento
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&descuentos).Error
	return descuentos, err
}

func (r *descuentoRepo) Update(ctx context.Context, d *model.Descuento) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *descuentoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Descuento{}, id).Error
}
