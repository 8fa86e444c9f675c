package repository

import (
	"context"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindByNumero(ctx context.Context, numero int) (*model.Pedido, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	// UpdateEstadoDesde moves estado only when the row still is in the
	// expected source state; returns the number of rows touched so callers
	// can detect a lost race (e.g. two staff confirming at once, or the
	// expiry sweep racing a confirmation).
	UpdateEstadoDesde(ctx context.Context, tx *gorm.DB, id uuid.UUID, de, a int) (int64, error)
	ListPendientesVencidos(ctx context.Context, corte time.Time, limit int) ([]model.Pedido, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items.Producto").First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) FindByNumero(ctx context.Context, numero int) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items.Producto").Where("numero = ?", numero).First(&p).Error
	return &p, err
}

func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps order numbers atomic across POS and web.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pedidos_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Estado != 0 {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Origen != "" {
		q = q.Where("origen = ?", filter.Origen)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}

func (r *pedidoRepo) UpdateEstadoDesde(ctx context.Context, tx *gorm.DB, id uuid.UUID, de, a int) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, de).
		Update("estado", a)
	return res.RowsAffected, res.Error
}

func (r *pedidoRepo) ListPendientesVencidos(ctx context.Context, corte time.Time, limit int) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Where("estado = ? AND expira_en IS NOT NULL AND expira_en < ?", model.EstadoPendiente, corte).
		Limit(limit).
		Find(&pedidos).Error
	return pedidos, err
}
