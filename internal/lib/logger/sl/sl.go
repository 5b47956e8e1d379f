package sl

import (
	"log/slog"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// Err creates a slog.Attr with the given error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	return slog.String("error", err.Error())
}

// Op names the operation a log line belongs to.
func Op(opn string) slog.Attr {
	return slog.String("op", opn)
}

// Employee groups the identifying fields of an employee.
func Employee(employee models.Employee) slog.Attr {
	return slog.Group("employee",
		slog.Int("id", employee.ID),
		slog.String("name", employee.FirstName+" "+employee.LastName),
	)
}
