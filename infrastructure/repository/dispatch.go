package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/marlogas/caja-api/infrastructure/database/postgres"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=dispatch.go -destination=mocks/dispatch_mock.go -package=mocks

const (
	dispatchesTable   = "dispatches"
	dispatchesColumns = "id, client, address, gas, water, price, payment_method, cylinders, notes, business_date, created_at"
)

// DispatchRepository é o livro de despachos consumido pela caja e pelos relatórios
type DispatchRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]domain.Dispatch, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]domain.Dispatch, error)
	// Insert atribui ID e data de criação
	Insert(ctx context.Context, dispatch domain.Dispatch) (*domain.Dispatch, error)
	// Subscribe registra um callback chamado a cada despacho novo
	Subscribe(fn func(domain.Dispatch)) (unsubscribe func())
	// HandleNotification repassa aos assinantes um aviso vindo do LISTEN/NOTIFY
	HandleNotification(payload string)
}

type dispatchRepository struct {
	conn          postgres.Conn
	location      *time.Location
	notifyChannel string
	subscribers   *Subscribers
}

// NewDispatchRepository cria o repositório. Com notifyChannel preenchido o
// aviso de mudança sai por pg_notify e chega aos assinantes pelo listener
// (HandleNotification); vazio, os assinantes são chamados direto no Insert.
func NewDispatchRepository(conn postgres.Conn, location *time.Location, notifyChannel string) DispatchRepository {
	return &dispatchRepository{
		conn:          conn,
		location:      location,
		notifyChannel: notifyChannel,
		subscribers:   NewSubscribers(),
	}
}

func (r *dispatchRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.Dispatch, error) {
	query, args, err := squirrel.
		Select(dispatchesColumns).
		From(dispatchesTable).
		Where(squirrel.Eq{"business_date": domain.FormatDate(date)}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.list(ctx, "listar despachos do dia", query, args...)
}

func (r *dispatchRepository) ListByRange(ctx context.Context, start, end time.Time) ([]domain.Dispatch, error) {
	if start.After(end) {
		return []domain.Dispatch{}, nil
	}

	query, args, err := squirrel.
		Select(dispatchesColumns).
		From(dispatchesTable).
		Where(squirrel.GtOrEq{"business_date": domain.FormatDate(start)}).
		Where(squirrel.LtOrEq{"business_date": domain.FormatDate(end)}).
		OrderBy("business_date DESC", "created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.list(ctx, "listar despachos do período", query, args...)
}

func (r *dispatchRepository) Insert(ctx context.Context, dispatch domain.Dispatch) (*domain.Dispatch, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ID do despacho: %w", err)
	}

	dispatch.ID = id
	dispatch.CreatedAt = time.Now().UTC()
	if dispatch.BusinessDate.IsZero() {
		dispatch.BusinessDate = domain.DateOf(dispatch.CreatedAt, r.location)
	}

	query, args, err := squirrel.
		Insert(dispatchesTable).
		Columns("id", "client", "address", "gas", "water", "price", "payment_method", "cylinders", "notes", "business_date", "created_at").
		Values(
			dispatch.ID,
			dispatch.Client,
			dispatch.Address,
			dispatch.Gas,
			dispatch.Water,
			dispatch.Price,
			dispatch.PaymentMethod.String(),
			dispatch.Cylinders,
			dispatch.Notes,
			domain.FormatDate(dispatch.BusinessDate),
			dispatch.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if r.notifyChannel == "" {
		if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
			return nil, storeError("inserir despacho", err)
		}
		r.subscribers.Publish(dispatch)
		return &dispatch, nil
	}

	err = r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		// A notificação só é entregue se a transação for confirmada
		_, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", r.notifyChannel, notificationPayload(dispatch))
		return err
	})
	if err != nil {
		return nil, storeError("inserir despacho", err)
	}

	return &dispatch, nil
}

func (r *dispatchRepository) Subscribe(fn func(domain.Dispatch)) func() {
	return r.subscribers.Add(fn)
}

// Payload vazio (reconexão do listener) ainda avisa os assinantes
func (r *dispatchRepository) HandleNotification(payload string) {
	r.subscribers.Publish(DispatchFromNotification(payload))
}

func (r *dispatchRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]domain.Dispatch, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	dispatches := make([]domain.Dispatch, 0)
	for rows.Next() {
		dispatch, err := scanDispatch(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		dispatches = append(dispatches, dispatch)
	}

	if err = rows.Err(); err != nil {
		return nil, storeError(op, err)
	}

	return dispatches, nil
}

// scanDispatch lê uma linha tolerando preço e método de pagamento malformados,
// que são registrados em log e tratados como zero / desconhecido.
func scanDispatch(rows *sql.Rows) (domain.Dispatch, error) {
	var (
		d         domain.Dispatch
		price     sql.NullString
		method    sql.NullString
		cylinders sql.NullInt64
		notes     sql.NullString
	)

	err := rows.Scan(
		&d.ID,
		&d.Client,
		&d.Address,
		&d.Gas,
		&d.Water,
		&price,
		&method,
		&cylinders,
		&notes,
		&d.BusinessDate,
		&d.CreatedAt,
	)
	if err != nil {
		return d, err
	}

	d.Price = decimal.Zero
	if amount, ok := domain.ParseMoney(price.String); ok {
		d.Price = amount
	} else {
		logrus.WithFields(logrus.Fields{
			"dispatch_id": d.ID,
			"price":       price.String,
		}).Warn("Despacho com preço inválido, considerando zero")
	}

	d.PaymentMethod = domain.ParsePaymentMethod(method.String)
	if d.PaymentMethod == domain.PaymentUnknown {
		logrus.WithFields(logrus.Fields{
			"dispatch_id":    d.ID,
			"payment_method": method.String,
		}).Warn("Despacho com método de pagamento desconhecido")
	}

	if cylinders.Valid {
		c := int(cylinders.Int64)
		d.Cylinders = &c
	}
	d.Notes = notes.String

	return d, nil
}
