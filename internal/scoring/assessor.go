package scoring

import (
	"context"
	"time"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// Oracle - внешний источник подсказок о тяжести (LLM или ручной ввод)
type Oracle interface {
	Assess(ctx context.Context, incident models.Incident) (*Hint, error)
}

// Assessor оценивает тяжесть, опрашивая оракул с таймаутом
type Assessor struct {
	oracle  Oracle
	timeout time.Duration
	logger  *logrus.Logger
	now     func() time.Time
}

// NewAssessor создает Assessor. oracle может быть nil - тогда используется только эвристика.
func NewAssessor(oracle Oracle, timeout time.Duration, logger *logrus.Logger) *Assessor {
	return &Assessor{
		oracle:  oracle,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Assess никогда не завершается ошибкой: сбой оракула дает эвристическую оценку
func (a *Assessor) Assess(ctx context.Context, incident models.Incident) models.SeverityAssessment {
	hint, err := a.consult(ctx, incident)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"component":   "scoring",
			"incident_id": incident.ID,
		}).WithError(err).Warn("Scoring oracle unavailable, using heuristic score")
	}
	return Score(incident, hint, a.now().UTC())
}

func (a *Assessor) consult(ctx context.Context, incident models.Incident) (*Hint, error) {
	if a.oracle == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		hint *Hint
		err  error
	}
	done := make(chan result, 1)
	go func() {
		hint, err := a.oracle.Assess(ctx, incident)
		done <- result{hint: hint, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, &models.OracleTimeoutError{Oracle: "scoring", Err: res.err}
		}
		return res.hint, nil
	case <-ctx.Done():
		return nil, &models.OracleTimeoutError{Oracle: "scoring", Err: ctx.Err()}
	}
}
