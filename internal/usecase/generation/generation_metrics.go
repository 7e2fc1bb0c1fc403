package generation

import "github.com/LavaJover/shvark-credit-service/internal/domain"

func (uc *DefaultGenerationUsecase) recordSubmitted(outcome string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.GenerationSubmittedTotal.WithLabelValues(outcome).Inc()
}

func (uc *DefaultGenerationUsecase) recordFinished(record *domain.GenerationRecord) {
	if uc.Metrics == nil {
		return
	}

	status := string(record.Status)
	uc.Metrics.GenerationFinishedTotal.WithLabelValues(status).Inc()
	if !record.CreatedAt.IsZero() {
		uc.Metrics.GenerationDuration.WithLabelValues(status).Observe(uc.now().Sub(record.CreatedAt).Seconds())
	}
}

func (uc *DefaultGenerationUsecase) recordRefund() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.GenerationRefundsTotal.Inc()
}

func (uc *DefaultGenerationUsecase) recordVendorError(call string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.VendorErrorsTotal.WithLabelValues(call).Inc()
}
