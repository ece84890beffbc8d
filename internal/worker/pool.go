package worker

import (
	"context"
	"sync"

	"github.com/MaikonGithub/QualiCam/internal/infra"

	"github.com/rs/zerolog/log"
)

// PrintJob is one physical copy of a rendered label document.
type PrintJob struct {
	IDEtiqueta int64  // allocated label number
	Copia      int    // 1-based copy index within the id
	Documento  string // path of the rendered ZPL file
}

// PrintResult pairs a job with the outcome of its submission.
type PrintResult struct {
	Job PrintJob
	Err error
}

// PrintPool fans label submissions out over a fixed number of goroutines.
// A batch of N ids × M copies produces N*M submissions; the pool bounds how
// many lpr processes run at once while the batch endpoint waits for the
// aggregated results.
type PrintPool struct {
	printer infra.PrintSubmitter
	size    int
}

func NewPrintPool(printer infra.PrintSubmitter, size int) *PrintPool {
	if size <= 0 {
		size = 1
	}
	return &PrintPool{printer: printer, size: size}
}

// SubmitAll runs every job through the printer and returns one result per
// job. Individual failures never abort the batch — partial completion is a
// valid terminal state reported back to the caller.
func (p *PrintPool) SubmitAll(ctx context.Context, jobs []PrintJob) []PrintResult {
	jobCh := make(chan PrintJob)
	resCh := make(chan PrintResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				err := p.printer.Submit(ctx, job.Documento)
				if err != nil {
					log.Warn().
						Int64("id_etiqueta", job.IDEtiqueta).
						Int("copia", job.Copia).
						Err(err).
						Msg("falha ao enviar etiqueta para a impressora")
				}
				resCh <- PrintResult{Job: job, Err: err}
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	close(resCh)

	results := make([]PrintResult, 0, len(jobs))
	for r := range resCh {
		results = append(results, r)
	}
	return results
}
