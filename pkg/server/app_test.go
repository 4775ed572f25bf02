package server

import (
	"context"
	"errors"
	"testing"

	xhttp "MacroBot/pkg/http"
	applogger "MacroBot/pkg/logger"

	"github.com/go-playground/assert/v2"
)

type downDep struct{}

func (downDep) Health(context.Context) error { return errors.New("connection refused") }

func TestRunFailsOnUnhealthyDependency(t *testing.T) {
	srv := xhttp.NewServer(applogger.Nop(), nil, xhttp.WithMetricsPath(""))
	app := New(applogger.Nop(), srv, map[string]Pinger{"postgres": downDep{}})

	err := app.Run(context.Background())
	assert.NotEqual(t, nil, err)
	assert.MatchRegex(t, err.Error(), `^postgres health: connection refused$`)
}
