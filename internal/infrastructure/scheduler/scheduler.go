package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	appstock "github.com/jhoicas/stock-rentals-api/internal/application/stock"
	"github.com/jhoicas/stock-rentals-api/pkg/logger"
)

// Scheduler ejecuta tareas programadas del tablero. Por ahora solo el escaneo
// de alquileres vencidos.
type Scheduler struct {
	cron      *cron.Cron
	overdueUC *appstock.OverdueUseCase
	spec      string
	log       *logger.Logger
}

// New construye el scheduler. spec es una expresión cron de 5 campos.
func New(spec string, overdueUC *appstock.OverdueUseCase, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:      cron.New(),
		overdueUC: overdueUC,
		spec:      spec,
		log:       log,
	}
}

// Start registra los jobs y arranca el cron en su propia goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.scanOverdue); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler iniciado")
	return nil
}

// Stop detiene el cron y espera a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}

func (s *Scheduler) scanOverdue() {
	overdue, err := s.overdueUC.ListOverdue(time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("escaneo de alquileres vencidos falló")
		return
	}
	if len(overdue) == 0 {
		s.log.Info().Msg("sin alquileres vencidos")
		return
	}
	for _, r := range overdue {
		s.log.Warn().
			Str("transaction_id", r.TransactionID).
			Str("customer", r.CustomerName).
			Time("expected_return_date", r.ExpectedReturnDate).
			Int("days_overdue", r.DaysOverdue).
			Msg("alquiler vencido")
	}
}
