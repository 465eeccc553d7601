package domain

import (
	"context"
	"errors"
	"fmt"
)

// Categorias de erro do domínio. Toda falha devolvida pelos casos de uso
// carrega exatamente uma delas, verificável com errors.Is.
var (
	// ErrValidation indica entrada malformada (ex: monto inicial negativo). Nunca repetir.
	ErrValidation = errors.New("dados inválidos")
	// ErrConflict indica que já existe uma caja aberta para a data.
	ErrConflict = errors.New("conflito com o estado atual")
	// ErrState indica operação inválida para o status da caja (ex: fechar caja já fechada).
	ErrState = errors.New("operação inválida para o status atual")
	// ErrStoreUnavailable indica falha de I/O no armazenamento; o chamador pode repetir com backoff.
	ErrStoreUnavailable = errors.New("armazenamento indisponível")
	// ErrNotFound indica que o registro procurado não existe.
	ErrNotFound = errors.New("registro não encontrado")
)

// Error é um erro com contexto adicional sobre a operação que falhou
type Error struct {
	Kind    error  // Categoria (ErrValidation, ErrConflict, ...)
	Op      string // Operação que falhou
	Details string // Detalhes para o cliente
	Cause   error  // Erro original, quando houver
}

// Error implementa a interface error
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap expõe a categoria e a causa para errors.Is / errors.As
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// NewError cria um erro de domínio sem causa subjacente
func NewError(kind error, op, details string) *Error {
	return &Error{Kind: kind, Op: op, Details: details}
}

// WrapError cria um erro de domínio a partir de um erro existente
func WrapError(kind error, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

func IsState(err error) bool { return errors.Is(err, ErrState) }

func IsStoreUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// AsStoreUnavailable classifica prazo estourado ou cancelamento como ErrStoreUnavailable.
// Outros erros são devolvidos sem alteração.
func AsStoreUnavailable(op string, err error) error {
	if err == nil || IsStoreUnavailable(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return WrapError(ErrStoreUnavailable, op, err)
	}
	return err
}
