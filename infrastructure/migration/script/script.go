// Comando de importação dos despachos exportados do sistema antigo (JSON com
// as linhas da tabela despachos). Uso:
//
//	go run ./infrastructure/migration/script -file despachos.json
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/marlogas/caja-api/infrastructure/database/postgres"
	"github.com/marlogas/caja-api/infrastructure/migration"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// legacyDispatch é uma linha exportada do sistema antigo
type legacyDispatch struct {
	Cliente       string          `json:"cliente"`
	Direccion     string          `json:"direccion"`
	Gas           int             `json:"gas"`
	Agua          int             `json:"agua"`
	Precio        jsoniter.RawMessage `json:"precio"`
	MetodoPago    string          `json:"metodo_pago"`
	Cilindro      *int            `json:"cilindro"`
	Observaciones string          `json:"observaciones"`
	CreadoEn      string          `json:"creado_en"`
}

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de importação...")
}

// toDispatch converte a linha antiga. Preço ilegível vira zero e método
// desconhecido é mantido para aparecer na contagem de registros ruins.
func toDispatch(row legacyDispatch, location *time.Location) (domain.Dispatch, error) {
	createdAt, err := parseLegacyTime(row.CreadoEn, location)
	if err != nil {
		return domain.Dispatch{}, err
	}

	price, ok := domain.ParseMoney(strings.Trim(string(row.Precio), `"`))
	if !ok {
		logrus.WithField("cliente", row.Cliente).Warn("Preço ilegível, importando como zero")
	}

	return domain.Dispatch{
		Client:        strings.TrimSpace(row.Cliente),
		Address:       strings.TrimSpace(row.Direccion),
		Gas:           row.Gas,
		Water:         row.Agua,
		Price:         domain.RoundMoney(price),
		PaymentMethod: domain.ParsePaymentMethod(row.MetodoPago),
		Cylinders:     row.Cilindro,
		Notes:         row.Observaciones,
		BusinessDate:  domain.DateOf(createdAt, location),
		CreatedAt:     createdAt.UTC(),
	}, nil
}

// parseLegacyTime aceita timestamp com fuso (RFC3339) ou sem fuso, que é
// interpretado no horário local do negócio
func parseLegacyTime(value string, location *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, location)
}

func insertDispatches(tx *sql.Tx, dispatches []domain.Dispatch) error {
	logrus.Infof("Iniciando inserção de %d despachos...", len(dispatches))
	startTime := time.Now()

	stmt, err := tx.Prepare(`INSERT INTO dispatches
		(id, client, address, gas, water, price, payment_method, cylinders, notes, business_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return fmt.Errorf("erro ao preparar statement para dispatches: %w", err)
	}
	defer stmt.Close()

	for i, d := range dispatches {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar ID: %w", err)
		}

		_, err = stmt.Exec(id, d.Client, d.Address, d.Gas, d.Water, d.Price, d.PaymentMethod.String(),
			d.Cylinders, d.Notes, domain.FormatDate(d.BusinessDate), d.CreatedAt)
		if err != nil {
			return fmt.Errorf("erro ao inserir despacho [%d/%d] %s: %w", i+1, len(dispatches), d.Client, err)
		}

		if i > 0 && i%100 == 0 {
			logrus.Infof("Progresso: %d/%d despachos processados", i+1, len(dispatches))
		}
	}

	logrus.Infof("Inserção concluída em %v", time.Since(startTime))
	return nil
}

func main() {
	setupLogger()

	file := flag.String("file", "despachos.json", "arquivo JSON exportado do sistema antigo")
	dryRun := flag.Bool("dry-run", false, "apenas valida o arquivo")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao ler arquivo de exportação")
	}

	var rows []legacyDispatch
	if err := json.Unmarshal(raw, &rows); err != nil {
		logrus.WithError(err).Fatal("Arquivo de exportação inválido")
	}

	dispatches := make([]domain.Dispatch, 0, len(rows))
	for i, row := range rows {
		d, err := toDispatch(row, cfg.App.Location)
		if err != nil {
			logrus.WithError(err).Warnf("Linha %d ignorada: data inválida", i+1)
			continue
		}
		dispatches = append(dispatches, d)
	}

	summary := domain.Tally(dispatches)
	logrus.WithFields(logrus.Fields{
		"rows":          len(rows),
		"valid":         len(dispatches),
		"cash_total":    summary.CashTotal.String(),
		"wallet_total":  summary.WalletTotal.String(),
		"unknown_count": summary.UnknownCount,
	}).Info("Arquivo lido")

	if *dryRun {
		return
	}

	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := migration.Migrate(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	// Tudo ou nada: uma linha rejeitada desfaz a importação inteira
	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return insertDispatches(tx, dispatches)
	})
	if err != nil {
		logrus.WithError(err).Fatal("Importação desfeita")
	}

	logrus.Info("Script de importação concluído")
}
