package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	original := logrus.StandardLogger().Out
	SetupTestLogger()
	logrus.SetOutput(&buf)
	t.Cleanup(func() {
		logrus.SetOutput(original)
	})
	return &buf
}

func TestWithFields_DesenvolvimentoFiltraCampos(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	buf := captureOutput(t)

	L.WithFields(Fields{
		"register_id": "ABC123",
		"user_name":   "ana",
		"query":       "date=2025-03-10",
	}).Info("teste")

	out := buf.String()
	assert.Contains(t, out, "register_id=ABC123")
	assert.Contains(t, out, "user_name=ana")
	assert.NotContains(t, out, "query=")
}

func TestWithFields_ProducaoMantemTudo(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	buf := captureOutput(t)

	L.WithField("query", "date=2025-03-10").Info("teste")

	assert.Contains(t, buf.String(), "query=")
}

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}
