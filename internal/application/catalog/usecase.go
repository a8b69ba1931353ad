// Package catalog catálogo de productos del servicio y su lista de precios.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/reports"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
	"github.com/jhoicas/fiskal-servis/pkg/bgformat"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// Variantes de la lista de precios.
const (
	ModeBGNEUR = "bgn_eur" // Цена (ЛВ) y Цена (EUR)
	ModeEUR    = "eur"     // solo Цена (EUR)
)

// otherCategory agrupa los productos sin categoría.
const otherCategory = "Други"

// ProductUseCase casos de uso CRUD para productos y exportación de la lista de precios.
type ProductUseCase struct {
	repo      repository.ProductRepository
	audit     repository.AuditRepository
	exporters map[string]reports.TableExporter
	now       func() time.Time
	log       *logger.Logger
}

// NewProductUseCase construye el caso de uso. audit puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, audit repository.AuditRepository, exporters reports.Exporters, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		repo:      repo,
		audit:     audit,
		exporters: exporters.ByFormat(),
		now:       time.Now,
		log:       log.Component("catalog"),
	}
}

// WithClock fija el reloj (tests).
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	product := &entity.Product{ID: uuid.New().String()}
	in.Apply(product)
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.record(ctx, actor, entity.ActionAddProduct, "Добавен продукт "+product.Name)
	out := dto.NewProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.mustProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Update reemplaza los datos del producto.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	product, err := uc.mustProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(product)
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.record(ctx, actor, entity.ActionUpdateProduct, "Редактиран продукт "+product.Name)
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	product, err := uc.mustProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.record(ctx, actor, entity.ActionDeleteProduct, "Изтрит продукт "+product.Name)
	return nil
}

// List catálogo completo o, con query, los productos que coinciden en nombre,
// categoría o descripción.
func (uc *ProductUseCase) List(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	var (
		list []*entity.Product
		err  error
	)
	if strings.TrimSpace(query) == "" {
		list, err = uc.repo.List(ctx)
	} else {
		list, err = uc.repo.Search(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProductResponse(p))
	}
	return out, nil
}

// ── Ценова листа ──────────────────────────────────────────────────────────────

// PriceListTable tabla "ЦЕНОВА ЛИСТА" agrupada por categoría. Los productos sin
// categoría van al grupo "Други" pero su celda de categoría queda vacía.
func (uc *ProductUseCase) PriceListTable(ctx context.Context, mode string) (*dto.ReportTable, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeBGNEUR
	}
	if mode != ModeBGNEUR && mode != ModeEUR {
		return nil, fmt.Errorf("%w: modo %q no soportado", domain.ErrInvalidInput, mode)
	}
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		gi, gj := group(products[i]), group(products[j])
		if gi != gj {
			return gi < gj
		}
		return products[i].Name < products[j].Name
	})

	rate := bgformat.EURRate.StringFixed(5)
	table := &dto.ReportTable{
		Title: "ЦЕНОВА ЛИСТА",
		Notes: []string{"Дата: " + uc.now().Format("02.01.2006") + " г."},
		Rows:  make([][]string, 0, len(products)),
	}
	if mode == ModeBGNEUR {
		table.Notes = append(table.Notes, "Всички цени са в Лева и Евро (Курс: 1 EUR = "+rate+" BGN)")
		table.Headers = []string{"Име на продукт", "Категория", "Цена (ЛВ)", "Цена (EUR)"}
	} else {
		table.Notes = append(table.Notes, "Всички цени са в Евро (EUR)")
		table.Headers = []string{"Име на продукт", "Категория", "Цена (EUR)"}
	}

	for _, p := range products {
		eur := bgformat.ToEUR(p.Price, p.Currency).StringFixed(2)
		row := []string{p.Name, p.Category}
		if mode == ModeBGNEUR {
			row = append(row, bgformat.ToBGN(p.Price, p.Currency).StringFixed(2))
		}
		table.Rows = append(table.Rows, append(row, eur))
	}
	return table, nil
}

// ExportPriceList lista de precios en el formato pedido (docx por defecto) y su
// nombre de archivo PriceList_YYYYMMDD_HHMMSS.<ext>.
func (uc *ProductUseCase) ExportPriceList(ctx context.Context, actor entity.Actor, in dto.PriceListRequest) ([]byte, string, error) {
	format := reports.NormalizeFormat(in.Format)
	if format == "" {
		format = reports.FormatDOCX
	}
	exp, err := reports.Lookup(uc.exporters, format)
	if err != nil {
		return nil, "", err
	}
	table, err := uc.PriceListTable(ctx, in.Mode)
	if err != nil {
		return nil, "", err
	}
	data, err := exp.Export(ctx, table)
	if err != nil {
		return nil, "", fmt.Errorf("catalog: exportar %s: %w", format, err)
	}
	name := fmt.Sprintf("PriceList_%s.%s", uc.now().Format("20060102_150405"), format)
	uc.record(ctx, actor, entity.ActionPriceList, "Генерирана ценова листа "+name)
	uc.log.Debug().Str("format", format).Int("products", len(table.Rows)).Msg("ценова листа exportada")
	return data, name, nil
}

func group(p *entity.Product) string {
	if p.Category == "" {
		return otherCategory
	}
	return p.Category
}

func (uc *ProductUseCase) mustProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) record(ctx context.Context, actor entity.Actor, action, details string) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.Log(ctx, actor.Audit(action, details)); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("no se pudo registrar en el historial")
	}
}
