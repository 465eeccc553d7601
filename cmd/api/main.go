package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"
	_ "time/tzdata" // fuso America/Lima mesmo em imagens sem zoneinfo

	"github.com/marlogas/caja-api/infrastructure/database/postgres"
	"github.com/marlogas/caja-api/infrastructure/migration"
	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/infrastructure/repository/memory"
	"github.com/marlogas/caja-api/internal/api"
	"github.com/marlogas/caja-api/internal/api/handler"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/metrics"
	"github.com/marlogas/caja-api/internal/scheduler"
	"github.com/marlogas/caja-api/internal/usecases/authenticating"
	"github.com/marlogas/caja-api/internal/usecases/dispatching"
	"github.com/marlogas/caja-api/internal/usecases/reconciling"
	"github.com/marlogas/caja-api/internal/usecases/reporting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type repositories struct {
	dispatch repository.DispatchRepository
	register repository.RegisterRepository
	user     repository.UserRepository
	pinger   handler.Pinger
	close    func()
}

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := buildRepositories(ctx, cfg)
	defer repos.close()

	m := metrics.NewMetrics()

	authenticator := authenticating.NewService(repos.user, cfg)
	reconciler := reconciling.NewService(repos.register, repos.dispatch, m, cfg)
	dispatcher := dispatching.NewService(repos.dispatch, m, cfg)

	reporter := reporting.NewService(repos.dispatch, cfg)
	defer reporter.Close()

	seedAdmin(ctx, cfg, authenticator)

	openRegisterWatch := scheduler.NewOpenRegisterWatchService(reconciler, m, cfg)
	if err := openRegisterWatch.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de verificação de caja aberta")
	} else {
		logrus.Info("Agendador de verificação de caja aberta iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Reconciler:    reconciler,
		Dispatcher:    dispatcher,
		Reporter:      reporter,
		CronJobs: handler.CronJobServices{
			handler.CronJobTypeOpenRegister: openRegisterWatch,
		},
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Pinger:   repos.pinger,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func buildRepositories(ctx context.Context, cfg *config.Config) repositories {
	if cfg.Database.Driver == "memory" {
		logrus.Warn("Usando repositórios em memória, os dados se perdem ao reiniciar")
		return repositories{
			dispatch: memory.NewDispatchRepository(cfg.App.Location),
			register: memory.NewRegisterRepository(),
			user:     memory.NewUserRepository(),
			close:    func() {},
		}
	}

	pgConn := pgconn(ctx, cfg.Database)

	if err := migration.Migrate(ctx, pgConn); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	notifyChannel := ""
	if cfg.Database.ListenerEnabled {
		notifyChannel = cfg.Database.NotifyChannel
	}

	dispatchRepo := repository.NewDispatchRepository(pgConn, cfg.App.Location, notifyChannel)

	if notifyChannel != "" {
		listener := postgres.NewListener(cfg.Database.DSN, notifyChannel)
		go func() {
			if err := listener.Run(ctx, dispatchRepo.HandleNotification); err != nil {
				logrus.WithError(err).Error("Listener do PostgreSQL encerrado com erro")
			}
		}()
	}

	return repositories{
		dispatch: dispatchRepo,
		register: repository.NewRegisterRepository(pgConn),
		user:     repository.NewUserRepository(pgConn),
		pinger:   pgConn,
		close:    func() { pgConn.Close() },
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// seedAdmin cria o usuário inicial quando AUTH_ADMIN_PASSWORD está definido
func seedAdmin(ctx context.Context, cfg *config.Config, authenticator authenticating.Authenticator) {
	if cfg.Auth.AdminPassword == "" {
		return
	}

	user, err := authenticator.EnsureUser(ctx, cfg.Auth.AdminUser, "Administrador", cfg.Auth.AdminPassword)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar usuário inicial")
		return
	}

	logrus.WithField("username", user.Username).Info("Usuário inicial disponível")
}
