package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/MaikonGithub/QualiCam/internal/apierror"
	"github.com/MaikonGithub/QualiCam/internal/dto"
	"github.com/MaikonGithub/QualiCam/internal/infra"
	"github.com/MaikonGithub/QualiCam/internal/repository"
	"github.com/MaikonGithub/QualiCam/internal/worker"

	"github.com/rs/zerolog/log"
)

// maxTentativas bounds the random id search before falling back to a
// time-derived value.
const maxTentativas = 100

// EtiquetaService allocates label ids and drives batch printing.
type EtiquetaService interface {
	// GerarNumeroUnico returns a 5-digit id not currently used by any chapa.
	// The guarantee is probabilistic: the chapa insert re-validates at
	// creation time and is the real uniqueness authority.
	GerarNumeroUnico(ctx context.Context) (int64, error)
	GerarEtiquetas(ctx context.Context, quantidadeIDs, quantidadePorID int) (*dto.GerarEtiquetasResponse, error)
	TestarImpressora(ctx context.Context) (*dto.TestarImpressoraResponse, error)
}

type etiquetaService struct {
	chapas   repository.ChapaRepository
	template *infra.LabelTemplate
	printer  infra.PrintSubmitter
	pool     *worker.PrintPool

	now func() time.Time // swapped in tests
}

func NewEtiquetaService(
	chapas repository.ChapaRepository,
	template *infra.LabelTemplate,
	printer infra.PrintSubmitter,
	pool *worker.PrintPool,
) EtiquetaService {
	return &etiquetaService{
		chapas:   chapas,
		template: template,
		printer:  printer,
		pool:     pool,
		now:      time.Now,
	}
}

// GerarNumeroUnico draws uniform random ids in [10000, 99999] and probes the
// chapas table for collisions, up to maxTentativas. When the space is too
// full to find a free id it falls back to the last 5 digits of the Unix
// timestamp — a documented best-effort degradation that skips the
// uniqueness probe so allocation always terminates.
func (s *etiquetaService) GerarNumeroUnico(ctx context.Context) (int64, error) {
	for i := 0; i < maxTentativas; i++ {
		numero := int64(rand.Intn(90000) + 10000)
		exists, err := s.chapas.Exists(ctx, numero)
		if err != nil {
			return 0, err
		}
		if !exists {
			return numero, nil
		}
	}
	fallback := s.now().Unix() % 100000
	log.Warn().Int64("numero", fallback).
		Msg("alocador esgotou as tentativas — usando fallback por timestamp")
	return fallback, nil
}

// GerarEtiquetas allocates quantidadeIDs unique label numbers, renders one
// ZPL document per number and submits each one quantidadePorID times.
// Submissions fan out through the bounded print pool; failures are
// aggregated per copy, never rolled back — partial completion is a valid,
// reported terminal state.
func (s *etiquetaService) GerarEtiquetas(ctx context.Context, quantidadeIDs, quantidadePorID int) (*dto.GerarEtiquetasResponse, error) {
	if quantidadeIDs < 1 || quantidadePorID < 1 {
		return nil, apierror.Validation("Quantidades devem ser maiores que zero")
	}

	var (
		jobs     []worker.PrintJob
		cleanups []func()
		erros    []string
		ids      = make([]int64, 0, quantidadeIDs)
	)
	defer func() {
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	for i := 0; i < quantidadeIDs; i++ {
		numero, err := s.GerarNumeroUnico(ctx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, numero)

		documento, cleanup, err := s.template.WriteRendered(numero)
		if err != nil {
			// The whole id is lost; report every requested copy as failed.
			for copia := 1; copia <= quantidadePorID; copia++ {
				erros = append(erros, fmt.Sprintf("Erro na etiqueta %d do ID %d: %v", copia, numero, err))
			}
			continue
		}
		cleanups = append(cleanups, cleanup)

		for copia := 1; copia <= quantidadePorID; copia++ {
			jobs = append(jobs, worker.PrintJob{
				IDEtiqueta: numero,
				Copia:      copia,
				Documento:  documento,
			})
		}
	}

	results := s.pool.SubmitAll(ctx, jobs)
	sort.Slice(results, func(i, j int) bool {
		if results[i].Job.IDEtiqueta != results[j].Job.IDEtiqueta {
			return results[i].Job.IDEtiqueta < results[j].Job.IDEtiqueta
		}
		return results[i].Job.Copia < results[j].Job.Copia
	})

	sucessos := 0
	for _, r := range results {
		if r.Err == nil {
			sucessos++
			continue
		}
		erros = append(erros, fmt.Sprintf("Erro na etiqueta %d do ID %d: %v",
			r.Job.Copia, r.Job.IDEtiqueta, r.Err))
	}

	solicitado := quantidadeIDs * quantidadePorID
	resp := &dto.GerarEtiquetasResponse{
		IDsGerados:      ids,
		QuantidadeIDs:   quantidadeIDs,
		QuantidadePorID: quantidadePorID,
		TotalImpresso:   sucessos,
		TotalSolicitado: solicitado,
		GabaritoUsado:   s.template.Path(),
	}

	switch {
	case sucessos == solicitado:
		resp.Success = true
		resp.Message = fmt.Sprintf("%d etiquetas impressas com sucesso! (%d IDs únicos, %d etiquetas cada)",
			sucessos, quantidadeIDs, quantidadePorID)
	case sucessos > 0:
		resp.Success = true
		resp.Message = fmt.Sprintf("%d de %d etiquetas impressas. Alguns erros ocorreram.", sucessos, solicitado)
		resp.Erros = erros
	default:
		resp.Success = false
		resp.Error = fmt.Sprintf("Nenhuma etiqueta foi impressa. Erros: %v", erros)
		resp.Erros = erros
	}
	return resp, nil
}

// TestarImpressora submits the raw template straight to the queue. The
// command line and template path are echoed back for diagnosis.
func (s *etiquetaService) TestarImpressora(ctx context.Context) (*dto.TestarImpressoraResponse, error) {
	resp := &dto.TestarImpressoraResponse{
		ComandoExecutado: s.printer.CommandString(s.template.Path()),
		GabaritoUsado:    s.template.Path(),
	}
	if err := s.printer.Submit(ctx, s.template.Path()); err != nil {
		return resp, apierror.ExternalTool(fmt.Sprintf("Erro na impressão: %v", err), err)
	}
	resp.Success = true
	resp.Message = "Teste de impressão enviado com sucesso usando gabarito oficial!"
	return resp, nil
}
