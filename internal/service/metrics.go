package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"listify/internal/domain"
)

var authOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "auth_outcomes_total", Help: "Outcomes of register/login/verify"},
	[]string{"op", "outcome"},
)

func init() { prometheus.MustRegister(authOutcomes) }

func observe(op string, err error) {
	authOutcomes.WithLabelValues(op, outcome(err)).Inc()
}

// outcome 把错误压成有限的几类，避免 label 爆炸
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, domain.ErrBadCredential):
		return "bad_credential"
	case errors.Is(err, domain.ErrMissingToken), errors.Is(err, domain.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrRevokedToken):
		return "revoked"
	default:
		return "error"
	}
}
