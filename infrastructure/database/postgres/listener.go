package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Listener escuta um canal LISTEN/NOTIFY e repassa cada payload para o handler
type Listener struct {
	listener *pq.Listener
	channel  string
}

func NewListener(dsn, channel string) *Listener {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logrus.WithError(err).WithField("channel", channel).Warn("Problema no listener do PostgreSQL")
		}
	}

	return &Listener{
		listener: pq.NewListener(dsn, 2*time.Second, time.Minute, reportProblem),
		channel:  channel,
	}
}

// Run bloqueia até o contexto ser cancelado
func (l *Listener) Run(ctx context.Context, handle func(payload string)) error {
	if err := l.listener.Listen(l.channel); err != nil {
		return err
	}

	logrus.WithField("channel", l.channel).Info("Listener do PostgreSQL iniciado")

	for {
		select {
		case <-ctx.Done():
			logrus.WithField("channel", l.channel).Info("Parando listener do PostgreSQL")
			return l.listener.Close()
		case n := <-l.listener.Notify:
			// nil após reconexão; eventos podem ter sido perdidos
			if n == nil {
				handle("")
				continue
			}
			handle(n.Extra)
		case <-time.After(90 * time.Second):
			go func() {
				if err := l.listener.Ping(); err != nil {
					logrus.WithError(err).Warn("Ping do listener falhou")
				}
			}()
		}
	}
}
