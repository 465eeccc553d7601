package apiErrors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marlogas/caja-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Validação vira 400",
			err:            domain.NewError(domain.ErrValidation, "abrir caja", "monto inicial não pode ser negativo"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrInvalidRequest,
		},
		{
			name:           "Conflito vira 409",
			err:            domain.NewError(domain.ErrConflict, "abrir caja", "já existe uma caja aberta"),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrRegisterAlreadyOpen,
		},
		{
			name:           "Estado inválido vira 409",
			err:            domain.NewError(domain.ErrState, "fechar caja", "já está cerrada"),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrRegisterState,
		},
		{
			name:           "Caja inexistente vira 404",
			err:            domain.NewError(domain.ErrNotFound, "fechar caja", "não existe"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrRegisterNotFound,
		},
		{
			name:           "Armazenamento indisponível vira 503",
			err:            domain.WrapError(domain.ErrStoreUnavailable, "abrir caja", context.DeadlineExceeded),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrStoreUnavailable,
		},
		{
			name:           "Erro desconhecido vira 500",
			err:            errors.New("falha inesperada"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteDomainError(rec, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestWriteError_StoreUnavailableSugereRetry(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrStoreUnavailable, "indisponível", nil)

	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
