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
)

//go:generate mockgen -source=register.go -destination=mocks/register_mock.go -package=mocks

const (
	registerSessionsTable   = "register_sessions"
	registerSessionsColumns = "id, business_date, opening_balance, status, cash_total, wallet_total, drawer_total, opened_at, closed_at"
)

type RegisterRepository interface {
	// FindOpenByDate retorna nil, nil quando não há caja aberta na data
	FindOpenByDate(ctx context.Context, date time.Time) (*domain.RegisterSession, error)
	FindByID(ctx context.Context, id string) (*domain.RegisterSession, error)
	// Insert devolve ErrConflict se já houver caja aberta na mesma data
	Insert(ctx context.Context, session domain.RegisterSession) (*domain.RegisterSession, error)
	// Update só altera cajas abertas: ErrNotFound se o ID não existe, ErrState se já foi fechada
	Update(ctx context.Context, id string, update domain.RegisterUpdate) (*domain.RegisterSession, error)
}

type registerRepository struct {
	conn postgres.Conn
}

func NewRegisterRepository(conn postgres.Conn) RegisterRepository {
	return &registerRepository{
		conn: conn,
	}
}

func (r *registerRepository) FindOpenByDate(ctx context.Context, date time.Time) (*domain.RegisterSession, error) {
	query, args, err := squirrel.
		Select(registerSessionsColumns).
		From(registerSessionsTable).
		Where(squirrel.Eq{
			"business_date": domain.FormatDate(date),
			"status":        string(domain.RegisterOpen),
		}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	session, err := scanRegisterSession(r.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("buscar caja aberta", err)
	}

	return session, nil
}

func (r *registerRepository) FindByID(ctx context.Context, id string) (*domain.RegisterSession, error) {
	query, args, err := squirrel.
		Select(registerSessionsColumns).
		From(registerSessionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	session, err := scanRegisterSession(r.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("buscar caja", err)
	}

	return session, nil
}

func (r *registerRepository) Insert(ctx context.Context, session domain.RegisterSession) (*domain.RegisterSession, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ID da caja: %w", err)
	}

	session.ID = id
	session.Status = domain.RegisterOpen
	session.Snapshot = nil
	session.ClosedAt = nil
	if session.OpenedAt.IsZero() {
		session.OpenedAt = time.Now().UTC()
	}

	query, args, err := squirrel.
		Insert(registerSessionsTable).
		Columns("id", "business_date", "opening_balance", "status", "opened_at").
		Values(
			session.ID,
			domain.FormatDate(session.BusinessDate),
			session.OpeningBalance,
			string(session.Status),
			session.OpenedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		// Índice único parcial: uma caja aberta por data
		if postgres.IsUniqueViolation(err) {
			return nil, domain.NewError(domain.ErrConflict, "abrir caja",
				"já existe uma caja aberta para "+domain.FormatDate(session.BusinessDate))
		}
		return nil, storeError("abrir caja", err)
	}

	return &session, nil
}

func (r *registerRepository) Update(ctx context.Context, id string, update domain.RegisterUpdate) (*domain.RegisterSession, error) {
	query, args, err := squirrel.
		Update(registerSessionsTable).
		Set("status", string(update.Status)).
		Set("cash_total", update.Snapshot.CashTotal).
		Set("wallet_total", update.Snapshot.WalletTotal).
		Set("drawer_total", update.Snapshot.DrawerTotal).
		Set("closed_at", update.ClosedAt).
		Where(squirrel.Eq{
			"id":     id,
			"status": string(domain.RegisterOpen),
		}).
		Suffix("RETURNING " + registerSessionsColumns).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	session, err := scanRegisterSession(r.conn.QueryRowContext(ctx, query, args...))
	if err == nil {
		return session, nil
	}
	if err != sql.ErrNoRows {
		return nil, storeError("fechar caja", err)
	}

	// Nenhuma linha alterada: ou o ID não existe ou a caja já não está aberta
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NewError(domain.ErrNotFound, "fechar caja", "caja "+id+" não existe")
	}

	return nil, domain.NewError(domain.ErrState, "fechar caja", "caja "+id+" já está "+string(current.Status))
}

func scanRegisterSession(row *sql.Row) (*domain.RegisterSession, error) {
	var (
		session  domain.RegisterSession
		status   string
		opening  decimal.Decimal
		cash     decimal.NullDecimal
		wallet   decimal.NullDecimal
		drawer   decimal.NullDecimal
		closedAt sql.NullTime
	)

	err := row.Scan(
		&session.ID,
		&session.BusinessDate,
		&opening,
		&status,
		&cash,
		&wallet,
		&drawer,
		&session.OpenedAt,
		&closedAt,
	)
	if err != nil {
		return nil, err
	}

	session.OpeningBalance = domain.RoundMoney(opening)
	session.Status = domain.RegisterStatus(status)

	if closedAt.Valid {
		t := closedAt.Time
		session.ClosedAt = &t
	}

	if cash.Valid && wallet.Valid && drawer.Valid {
		session.Snapshot = &domain.ClosingSnapshot{
			CashTotal:   domain.RoundMoney(cash.Decimal),
			WalletTotal: domain.RoundMoney(wallet.Decimal),
			DrawerTotal: domain.RoundMoney(drawer.Decimal),
		}
	}

	return &session, nil
}
