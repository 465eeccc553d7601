package migration

import (
	"strings"
	"testing"

	"github.com/marlogas/caja-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSteps_IndiceUsaStatusDeCajaAberta(t *testing.T) {
	var found bool
	for _, s := range steps {
		if strings.Contains(s.sql, "register_sessions_open_date_idx") {
			found = true
			assert.Contains(t, s.sql, "status = '"+string(domain.RegisterOpen)+"'")
			assert.Contains(t, s.sql, "UNIQUE")
		}
	}
	assert.True(t, found)
}

func TestSteps_Idempotentes(t *testing.T) {
	for _, s := range steps {
		assert.Contains(t, s.sql, "IF NOT EXISTS", s.name)
	}
}
