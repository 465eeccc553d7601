package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro devolvidos pela API
const (
	// Erros de autenticação
	ErrInvalidCredentials = "AUTH_001" // Credenciais inválidas
	ErrUserDisabled       = "AUTH_002" // Usuário desativado
	ErrUserNotFound       = "AUTH_003" // Usuário não encontrado
	ErrInvalidToken       = "AUTH_006" // Token inválido
	ErrExpiredToken       = "AUTH_007" // Token expirado

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrInvalidAmount       = "VAL_004" // Valor monetário inválido
	ErrInvalidDate         = "VAL_005" // Data inválida

	// Erros da caja
	ErrRegisterAlreadyOpen = "CAJA_001" // Já existe caja aberta na data
	ErrRegisterState       = "CAJA_002" // Operação inválida para o status da caja
	ErrRegisterNotFound    = "CAJA_003" // Caja não encontrada

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrStoreUnavailable  = "SRV_004" // Armazenamento indisponível, tentar novamente
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrUserDisabled:        http.StatusForbidden,
	ErrUserNotFound:        http.StatusUnauthorized,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrInvalidAmount:       http.StatusBadRequest,
	ErrInvalidDate:         http.StatusBadRequest,
	ErrRegisterAlreadyOpen: http.StatusConflict,
	ErrRegisterState:       http.StatusConflict,
	ErrRegisterNotFound:    http.StatusNotFound,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrStoreUnavailable:    http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor devolve o status HTTP de um código, 500 se desconhecido
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	if code == ErrStoreUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}

// CodeFor traduz a categoria de um erro de domínio para o código da API
func CodeFor(err error) string {
	switch {
	case domain.IsValidation(err):
		return ErrInvalidRequest
	case domain.IsConflict(err):
		return ErrRegisterAlreadyOpen
	case domain.IsState(err):
		return ErrRegisterState
	case domain.IsNotFound(err):
		return ErrRegisterNotFound
	case domain.IsStoreUnavailable(err):
		return ErrStoreUnavailable
	default:
		return ErrInternalServer
	}
}

// WriteDomainError escreve um erro vindo dos casos de uso. Erros internos
// são registrados em log e não expõem detalhes ao cliente.
func WriteDomainError(w http.ResponseWriter, err error) {
	code := CodeFor(err)
	if code == ErrInternalServer {
		logrus.WithError(err).Error("Erro interno ao processar requisição")
		WriteError(w, code, "Erro interno no servidor", nil)
		return
	}

	message := err.Error()
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Details != "" {
		message = domainErr.Details
	}

	WriteError(w, code, message, nil)
}
