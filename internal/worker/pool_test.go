package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MaikonGithub/QualiCam/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPrinter struct {
	mu        sync.Mutex
	inFlight  int
	maxSeen   int
	submitted int
	failPaths map[string]bool
	gate      chan struct{} // when set, Submit blocks until the gate closes
}

func (p *countingPrinter) Submit(_ context.Context, documentPath string) error {
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.maxSeen {
		p.maxSeen = p.inFlight
	}
	p.submitted++
	fail := p.failPaths[documentPath]
	gate := p.gate
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()

	if fail {
		return errors.New("lpr: fila parada")
	}
	return nil
}

func (p *countingPrinter) CommandString(documentPath string) string {
	return "lpr -P 4BARCODE -o raw " + documentPath
}

var _ infra.PrintSubmitter = (*countingPrinter)(nil)

func makeJobs(ids int, copies int) []PrintJob {
	var jobs []PrintJob
	for i := 0; i < ids; i++ {
		for c := 1; c <= copies; c++ {
			jobs = append(jobs, PrintJob{
				IDEtiqueta: int64(10000 + i),
				Copia:      c,
				Documento:  "/tmp/etiqueta_test.zpl",
			})
		}
	}
	return jobs
}

func TestSubmitAllRetornaUmResultadoPorJob(t *testing.T) {
	printer := &countingPrinter{}
	pool := NewPrintPool(printer, 2)

	results := pool.SubmitAll(context.Background(), makeJobs(3, 2))
	require.Len(t, results, 6)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	assert.Equal(t, 6, printer.submitted)
}

func TestSubmitAllLimitaConcorrencia(t *testing.T) {
	gate := make(chan struct{})
	printer := &countingPrinter{gate: gate}
	pool := NewPrintPool(printer, 2)

	done := make(chan []PrintResult)
	go func() { done <- pool.SubmitAll(context.Background(), makeJobs(5, 1)) }()

	// With the gate closed at most `size` submissions can be in flight.
	for {
		printer.mu.Lock()
		started := printer.submitted
		printer.mu.Unlock()
		if started >= 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(gate)
	<-done

	printer.mu.Lock()
	defer printer.mu.Unlock()
	assert.LessOrEqual(t, printer.maxSeen, 2)
}

func TestSubmitAllFalhasNaoAbortamOLote(t *testing.T) {
	printer := &countingPrinter{failPaths: map[string]bool{"/tmp/ruim.zpl": true}}
	pool := NewPrintPool(printer, 3)

	jobs := []PrintJob{
		{IDEtiqueta: 11111, Copia: 1, Documento: "/tmp/ok.zpl"},
		{IDEtiqueta: 22222, Copia: 1, Documento: "/tmp/ruim.zpl"},
		{IDEtiqueta: 33333, Copia: 1, Documento: "/tmp/ok.zpl"},
	}
	results := pool.SubmitAll(context.Background(), jobs)
	require.Len(t, results, 3)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			assert.Equal(t, int64(22222), r.Job.IDEtiqueta)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestSubmitAllLoteVazio(t *testing.T) {
	pool := NewPrintPool(&countingPrinter{}, 3)
	results := pool.SubmitAll(context.Background(), nil)
	assert.Empty(t, results)
}

func TestNewPrintPoolTamanhoMinimo(t *testing.T) {
	printer := &countingPrinter{}
	pool := NewPrintPool(printer, 0)
	results := pool.SubmitAll(context.Background(), makeJobs(1, 1))
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}
