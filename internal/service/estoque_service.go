package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MaikonGithub/QualiCam/internal/apierror"
	"github.com/MaikonGithub/QualiCam/internal/dto"
	"github.com/MaikonGithub/QualiCam/internal/model"
	"github.com/MaikonGithub/QualiCam/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	metragemCacheKey = "estoque:metragem"
	metragemCacheTTL = 30 * time.Second

	appTimeLayout = "2006-01-02 15:04:05"
)

// EstoqueService is the inventory engine: the only place that enforces the
// area-consumption and state-transition invariants. Both API dialects call
// into the same methods; field-name translation stays in the DTO/handler
// layer.
type EstoqueService interface {
	// v1 dialect
	ListarDisponiveis(ctx context.Context) ([]dto.ChapaView, error)
	AdicionarChapa(ctx context.Context, req dto.AdicionarChapaRequest) (int64, error)
	AtualizarArea(ctx context.Context, req dto.AtualizarAreaRequest) (*dto.AtualizarAreaResponse, error)
	TransformarRetalho(ctx context.Context, idChapa int64) (*dto.TransformarRetalhoResponse, error)
	MetragemTotal(ctx context.Context) ([]dto.MaterialAggregate, error)
	ListarRetalhos(ctx context.Context) ([]dto.RetalhoView, error)
	// HistoricoMovimentacoes reads the ledger of one chapa, oldest first.
	// The id may belong to a chapa that no longer exists — the ledger
	// outlives its rows.
	HistoricoMovimentacoes(ctx context.Context, idChapa int64) ([]dto.MovimentacaoView, error)

	// /app dialect
	ObterChapa(ctx context.Context, id int64) (*dto.AppChapaView, error)
	ListarTodas(ctx context.Context) ([]dto.AppChapaView, error)
	CriarChapaApp(ctx context.Context, req dto.AppChapaRequest) error
	AtualizarChapaApp(ctx context.Context, id int64, req dto.AppAtualizarChapaRequest) error
	RemoverChapa(ctx context.Context, id int64) error
	CriarRetalhoApp(ctx context.Context, req dto.AppChapaRequest) error
	ListarRetalhosApp(ctx context.Context) ([]dto.AppRetalhoView, error)

	// report
	ChapasEmEstoque(ctx context.Context) ([]model.Chapa, error)
}

type estoqueService struct {
	chapas   repository.ChapaRepository
	movs     repository.MovimentacaoRepository
	retalhos repository.RetalhoRepository
	rdb      *redis.Client // nil in unit tests — cache is best-effort only
}

func NewEstoqueService(
	chapas repository.ChapaRepository,
	movs repository.MovimentacaoRepository,
	retalhos repository.RetalhoRepository,
	rdb *redis.Client,
) EstoqueService {
	return &estoqueService{chapas: chapas, movs: movs, retalhos: retalhos, rdb: rdb}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── v1: listagem ─────────────────────────────────────────────────────────────

func (s *estoqueService) ListarDisponiveis(ctx context.Context) ([]dto.ChapaView, error) {
	chapas, err := s.chapas.ListDisponiveis(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.ChapaView, 0, len(chapas))
	for _, c := range chapas {
		views = append(views, chapaToView(&c))
	}
	return views, nil
}

func chapaToView(c *model.Chapa) dto.ChapaView {
	return dto.ChapaView{
		IDChapa:            c.IDChapa,
		NomeMaterial:       c.NomeMaterial,
		Fornecedor:         c.Fornecedor,
		PrecoCompraM2:      c.PrecoCompraM2,
		AreaLiquidaInicial: c.AreaLiquidaInicial,
		AreaDisponivel:     c.AreaDisponivel,
		Localizacao:        c.Localizacao,
		Status:             c.Status,
		DataEntrada:        c.DataEntrada,
	}
}

// ── v1: adicionar ────────────────────────────────────────────────────────────

// AdicionarChapa inserts the chapa and its ENTRADA movement atomically.
// The id is caller-supplied; the insert itself is the uniqueness authority
// (the label allocator's pre-check is only probabilistic).
func (s *estoqueService) AdicionarChapa(ctx context.Context, req dto.AdicionarChapaRequest) (int64, error) {
	if req.PrecoCompraM2.IsNegative() {
		return 0, apierror.Validation("Preço de compra não pode ser negativo")
	}
	if !req.AreaLiquidaInicial.IsPositive() {
		return 0, apierror.Validation("Área líquida inicial deve ser maior que zero")
	}

	chapa := model.Chapa{
		IDChapa:            req.IDChapa,
		NomeMaterial:       req.NomeMaterial,
		Fornecedor:         req.Fornecedor,
		PrecoCompraM2:      req.PrecoCompraM2,
		AreaLiquidaInicial: req.AreaLiquidaInicial,
		AreaDisponivel:     req.AreaLiquidaInicial,
		Status:             model.StatusDisponivel,
	}

	err := runTx(ctx, s.chapas.DB(), func(tx *gorm.DB) error {
		if err := s.chapas.CreateTx(tx, &chapa); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.Duplicate("ID %d já existe", req.IDChapa)
			}
			return err
		}
		return s.movs.CreateTx(tx, &model.Movimentacao{
			IDChapa:          req.IDChapa,
			TipoMovimentacao: model.MovEntrada,
			QuantidadeM2:     req.AreaLiquidaInicial,
		})
	})
	if err != nil {
		return 0, err
	}
	s.invalidateMetragem(ctx)
	return chapa.IDChapa, nil
}

// ── v1: update-area ──────────────────────────────────────────────────────────

// AtualizarArea applies a partial update to an available chapa. The chapa
// row is locked for the duration of the transaction so two concurrent calls
// against the same id serialize instead of losing an update.
//
// Area may only go down: available_area never exceeds the initial net area
// and never exceeds its own previous value (corrections are done by remove
// and re-create, not by raising the area back up).
func (s *estoqueService) AtualizarArea(ctx context.Context, req dto.AtualizarAreaRequest) (*dto.AtualizarAreaResponse, error) {
	novaLocalizacao := ""
	if req.NovaLocalizacao != nil {
		novaLocalizacao = strings.TrimSpace(*req.NovaLocalizacao)
	}
	if req.NovaAreaDisponivel == nil && novaLocalizacao == "" {
		return nil, apierror.Validation("Nenhum campo para atualizar foi fornecido")
	}

	var resp dto.AtualizarAreaResponse
	err := runTx(ctx, s.chapas.DB(), func(tx *gorm.DB) error {
		chapa, err := s.chapas.FindForUpdateTx(tx, req.IDChapa)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Chapa %d não encontrada ou não disponível", req.IDChapa)
			}
			return err
		}
		if chapa.Status != model.StatusDisponivel {
			return apierror.NotFound("Chapa %d não encontrada ou não disponível", req.IDChapa)
		}

		upd := repository.ChapaUpdate{}
		resp = dto.AtualizarAreaResponse{
			Success:             true,
			IDChapa:             chapa.IDChapa,
			AreaAnterior:        chapa.AreaDisponivel,
			AreaAtual:           chapa.AreaDisponivel,
			LocalizacaoAnterior: chapa.Localizacao,
			LocalizacaoAtual:    chapa.Localizacao,
		}

		if req.NovaAreaDisponivel != nil {
			novaArea := *req.NovaAreaDisponivel
			if novaArea.IsNegative() {
				return apierror.Validation("Área não pode ser negativa")
			}
			if novaArea.GreaterThan(chapa.AreaLiquidaInicial) {
				return apierror.Capacity("Nova área não pode exceder a área inicial (%sm²)",
					chapa.AreaLiquidaInicial.StringFixed(2))
			}
			if novaArea.GreaterThan(chapa.AreaDisponivel) {
				return apierror.Validation("Área disponível não pode aumentar (atual %sm²)",
					chapa.AreaDisponivel.StringFixed(2))
			}

			consumo := chapa.AreaDisponivel.Sub(novaArea)
			upd.AreaDisponivel = &novaArea
			if novaArea.IsZero() {
				consumida := model.StatusConsumida
				upd.Status = &consumida
			}

			// Movements record actual decreases only — never no-ops.
			if consumo.IsPositive() {
				mov := &model.Movimentacao{
					IDChapa:          chapa.IDChapa,
					TipoMovimentacao: model.MovSaida,
					QuantidadeM2:     consumo,
				}
				if req.OsAssociada != nil {
					if os := strings.TrimSpace(*req.OsAssociada); os != "" {
						mov.OsAssociada = &os
					}
				}
				if err := s.movs.CreateTx(tx, mov); err != nil {
					return err
				}
			}
			resp.AreaAtual = novaArea
		}

		if novaLocalizacao != "" {
			upd.Localizacao = &novaLocalizacao
			resp.LocalizacaoAtual = novaLocalizacao
		}

		if upd.Empty() {
			return nil
		}
		_, err = s.chapas.UpdateTx(tx, chapa.IDChapa, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidateMetragem(ctx)
	return &resp, nil
}

// ── v1: transformar em retalho ───────────────────────────────────────────────

// TransformarRetalho is a one-way terminal transition: the chapa row is
// deleted and replaced by a retalho row, with the transferred area recorded
// in the ledger — all in one transaction. A second call with the same id
// finds no chapa and fails with NotFound; the id becomes reusable.
func (s *estoqueService) TransformarRetalho(ctx context.Context, idChapa int64) (*dto.TransformarRetalhoResponse, error) {
	var resp dto.TransformarRetalhoResponse
	err := runTx(ctx, s.chapas.DB(), func(tx *gorm.DB) error {
		chapa, err := s.chapas.FindForUpdateTx(tx, idChapa)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Chapa %d não encontrada", idChapa)
			}
			return err
		}

		rows, err := s.chapas.DeleteTx(tx, idChapa)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.NotFound("Chapa %d não encontrada", idChapa)
		}

		if err := s.retalhos.CreateTx(tx, &model.Retalho{
			IDChapaOriginal: idChapa,
			NomeMaterial:    chapa.NomeMaterial,
			Fornecedor:      chapa.Fornecedor,
			AreaRetalho:     chapa.AreaDisponivel,
			Localizacao:     chapa.Localizacao,
		}); err != nil {
			return err
		}

		if err := s.movs.CreateTx(tx, &model.Movimentacao{
			IDChapa:          idChapa,
			TipoMovimentacao: model.MovTransformarRetalho,
			QuantidadeM2:     chapa.AreaDisponivel,
		}); err != nil {
			return err
		}

		resp = dto.TransformarRetalhoResponse{
			Success:     true,
			Message:     "Chapa transformada em retalho com sucesso",
			IDChapa:     idChapa,
			AreaRetalho: chapa.AreaDisponivel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateMetragem(ctx)
	return &resp, nil
}

// ── v1: metragem total ───────────────────────────────────────────────────────

// MetragemTotal aggregates remaining chapas by material. The result is
// cached in redis for a short TTL and invalidated (best-effort) by every
// mutating operation.
func (s *estoqueService) MetragemTotal(ctx context.Context) ([]dto.MaterialAggregate, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, metragemCacheKey).Bytes(); err == nil {
			var materiais []dto.MaterialAggregate
			if jsonErr := json.Unmarshal(cached, &materiais); jsonErr == nil {
				return materiais, nil
			}
		}
	}

	rows, err := s.chapas.MaterialSummary(ctx)
	if err != nil {
		return nil, err
	}

	cem := decimal.NewFromInt(100)
	materiais := make([]dto.MaterialAggregate, 0, len(rows))
	for _, row := range rows {
		// Defined as 0 when the initial-area sum is 0 (division by zero).
		percentual := decimal.Zero
		if row.AreaTotalInicial.IsPositive() {
			percentual = row.AreaTotalDisponivel.Div(row.AreaTotalInicial).Mul(cem).Round(2)
		}
		materiais = append(materiais, dto.MaterialAggregate{
			NomeMaterial:         row.NomeMaterial,
			AreaTotalInicial:     row.AreaTotalInicial,
			AreaTotalDisponivel:  row.AreaTotalDisponivel,
			QuantidadeChapas:     row.QuantidadeChapas,
			PrecoMedioM2:         row.PrecoMedioM2,
			PercentualDisponivel: percentual,
		})
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(materiais); jsonErr == nil {
			_ = s.rdb.Set(ctx, metragemCacheKey, b, metragemCacheTTL).Err()
		}
	}
	return materiais, nil
}

func (s *estoqueService) invalidateMetragem(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, metragemCacheKey).Err()
	}
}

func (s *estoqueService) ListarRetalhos(ctx context.Context) ([]dto.RetalhoView, error) {
	retalhos, err := s.retalhos.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.RetalhoView, 0, len(retalhos))
	for _, r := range retalhos {
		views = append(views, dto.RetalhoView{
			IDRetalho:         r.IDRetalho,
			IDChapaOriginal:   r.IDChapaOriginal,
			NomeMaterial:      r.NomeMaterial,
			Fornecedor:        r.Fornecedor,
			AreaRetalho:       r.AreaRetalho,
			Localizacao:       r.Localizacao,
			DataTransformacao: r.DataTransformacao,
		})
	}
	return views, nil
}

func (s *estoqueService) HistoricoMovimentacoes(ctx context.Context, idChapa int64) ([]dto.MovimentacaoView, error) {
	movs, err := s.movs.ListByChapa(ctx, idChapa)
	if err != nil {
		return nil, err
	}
	views := make([]dto.MovimentacaoView, 0, len(movs))
	for _, m := range movs {
		views = append(views, dto.MovimentacaoView{
			IDMovimentacao:   m.IDMovimentacao,
			IDChapa:          m.IDChapa,
			TipoMovimentacao: m.TipoMovimentacao,
			QuantidadeM2:     m.QuantidadeM2,
			OsAssociada:      m.OsAssociada,
			DataMovimentacao: m.DataMovimentacao,
		})
	}
	return views, nil
}

// ── /app dialect ─────────────────────────────────────────────────────────────

func (s *estoqueService) ObterChapa(ctx context.Context, id int64) (*dto.AppChapaView, error) {
	chapa, err := s.chapas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Chapa não encontrada")
		}
		return nil, err
	}
	view := chapaToAppView(chapa, false)
	return &view, nil
}

func (s *estoqueService) ListarTodas(ctx context.Context) ([]dto.AppChapaView, error) {
	chapas, err := s.chapas.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.AppChapaView, 0, len(chapas))
	for _, c := range chapas {
		views = append(views, chapaToAppView(&c, true))
	}
	return views, nil
}

func chapaToAppView(c *model.Chapa, withDataCriacao bool) dto.AppChapaView {
	view := dto.AppChapaView{
		ID:           c.IDChapa,
		NomeMaterial: c.NomeMaterial,
		Fornecedor:   c.Fornecedor,
		Tamanho:      c.AreaDisponivel,
		Preco:        c.PrecoCompraM2,
		Localizacao:  c.Localizacao,
	}
	if withDataCriacao {
		ts := c.DataEntrada.Format(appTimeLayout)
		view.DataCriacao = &ts
	}
	return view
}

// CriarChapaApp maps the app's field names onto the standard creation path:
// tamanho becomes both the initial and the available area.
func (s *estoqueService) CriarChapaApp(ctx context.Context, req dto.AppChapaRequest) error {
	_, err := s.AdicionarChapa(ctx, dto.AdicionarChapaRequest{
		IDChapa:            req.ID,
		NomeMaterial:       req.NomeMaterial,
		Fornecedor:         req.Fornecedor,
		PrecoCompraM2:      req.Preco,
		AreaLiquidaInicial: req.Tamanho,
		Localizacao:        req.Localizacao,
	})
	if err != nil && apierror.KindOf(err) == apierror.KindDuplicate {
		return apierror.Duplicate("Chapa já existe")
	}
	return err
}

// AtualizarChapaApp is the app's full update. Descriptive fields change
// unconditionally; the area goes through the same consumption rules as the
// v1 update so the movement ledger stays complete across both dialects.
func (s *estoqueService) AtualizarChapaApp(ctx context.Context, id int64, req dto.AppAtualizarChapaRequest) error {
	err := runTx(ctx, s.chapas.DB(), func(tx *gorm.DB) error {
		chapa, err := s.chapas.FindForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Chapa não encontrada")
			}
			return err
		}

		novaArea := req.Tamanho
		if novaArea.IsNegative() {
			return apierror.Validation("Área não pode ser negativa")
		}
		if novaArea.GreaterThan(chapa.AreaLiquidaInicial) {
			return apierror.Capacity("Nova área não pode exceder a área inicial (%sm²)",
				chapa.AreaLiquidaInicial.StringFixed(2))
		}
		if novaArea.GreaterThan(chapa.AreaDisponivel) {
			return apierror.Validation("Área disponível não pode aumentar (atual %sm²)",
				chapa.AreaDisponivel.StringFixed(2))
		}

		upd := repository.ChapaUpdate{
			NomeMaterial:   &req.NomeMaterial,
			Fornecedor:     &req.Fornecedor,
			PrecoCompraM2:  &req.Preco,
			AreaDisponivel: &novaArea,
			Localizacao:    &req.Localizacao,
		}

		consumo := chapa.AreaDisponivel.Sub(novaArea)
		if chapa.Status == model.StatusDisponivel && novaArea.IsZero() {
			consumida := model.StatusConsumida
			upd.Status = &consumida
		}
		if consumo.IsPositive() {
			if err := s.movs.CreateTx(tx, &model.Movimentacao{
				IDChapa:          id,
				TipoMovimentacao: model.MovSaida,
				QuantidadeM2:     consumo,
			}); err != nil {
				return err
			}
		}

		_, err = s.chapas.UpdateTx(tx, id, upd)
		return err
	})
	if err != nil {
		return err
	}
	s.invalidateMetragem(ctx)
	return nil
}

func (s *estoqueService) RemoverChapa(ctx context.Context, id int64) error {
	err := runTx(ctx, s.chapas.DB(), func(tx *gorm.DB) error {
		rows, err := s.chapas.DeleteTx(tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.NotFound("Chapa não encontrada")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateMetragem(ctx)
	return nil
}

// CriarRetalhoApp registers a retalho directly (the app measures offcuts in
// the yard without a source chapa still in stock).
func (s *estoqueService) CriarRetalhoApp(ctx context.Context, req dto.AppChapaRequest) error {
	exists, err := s.retalhos.ExistsByChapaOriginal(ctx, req.ID)
	if err != nil {
		return err
	}
	if exists {
		return apierror.Duplicate("Retalho já existe")
	}
	return runTx(ctx, s.chapas.DB(), func(tx *gorm.DB) error {
		return s.retalhos.CreateTx(tx, &model.Retalho{
			IDChapaOriginal: req.ID,
			NomeMaterial:    req.NomeMaterial,
			Fornecedor:      req.Fornecedor,
			AreaRetalho:     req.Tamanho,
			Localizacao:     req.Localizacao,
		})
	})
}

func (s *estoqueService) ListarRetalhosApp(ctx context.Context) ([]dto.AppRetalhoView, error) {
	retalhos, err := s.retalhos.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.AppRetalhoView, 0, len(retalhos))
	for _, r := range retalhos {
		ts := r.DataTransformacao.Format(appTimeLayout)
		views = append(views, dto.AppRetalhoView{
			ID:           r.IDChapaOriginal,
			NomeMaterial: r.NomeMaterial,
			Fornecedor:   r.Fornecedor,
			Tamanho:      r.AreaRetalho,
			Localizacao:  r.Localizacao,
			DataCriacao:  &ts,
		})
	}
	return views, nil
}

// ChapasEmEstoque feeds the PDF stock report.
func (s *estoqueService) ChapasEmEstoque(ctx context.Context) ([]model.Chapa, error) {
	return s.chapas.ListDisponiveis(ctx)
}
