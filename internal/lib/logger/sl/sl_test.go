package sl_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	testLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{}))

	testLogger.Warn("expected result:", sl.Err(assert.AnError))

	assert.Contains(t, logBuf.String(), assert.AnError.Error())
}

func TestErr_Nil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<nil>", sl.Err(nil).Value.String())
}

func TestOpAndEmployee(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	testLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{}))

	testLogger.Info("stored", sl.Op("Staff.AddEmployee"),
		sl.Employee(models.Employee{ID: 1, FirstName: "John", LastName: "Doe"}))

	out := logBuf.String()
	assert.Contains(t, out, "op=Staff.AddEmployee")
	assert.Contains(t, out, "employee.id=1")
	assert.Contains(t, out, `employee.name="John Doe"`)
}
