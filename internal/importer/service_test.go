package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/washrent/internal/importer"
)

type stubMatcher map[string]string

func (m stubMatcher) Suggest(_ context.Context, raw string) (string, error) {
	if raw == "boom" {
		return "", errors.New("db error")
	}

	return m[raw], nil
}

const sheetCSV = `fecha;concepto;valor;medio;descripcion
05/03/2024;FERRETERIA EL TORNILLO;20.000;efectivo;
06/03/2024;boom;1.000;efectivo;
07/03/2024;Arriendo;300.000;daviplata;local
`

func TestService_Import(t *testing.T) {
	svc := importer.NewService(time.UTC, stubMatcher{"FERRETERIA EL TORNILLO": "Repuestos"})

	rows, err := svc.Import(context.Background(), importer.FormatSheet, strings.NewReader(sheetCSV), "ana")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Repuestos", rows[0].Concept)
	assert.Equal(t, "FERRETERIA EL TORNILLO", rows[0].Description)

	// A failing lookup keeps the raw concept.
	assert.Equal(t, "boom", rows[1].Concept)

	assert.Equal(t, "Arriendo", rows[2].Concept)
	assert.Equal(t, "local", rows[2].Description)

	for _, r := range rows {
		assert.Equal(t, "ana", r.Author)
	}
}

func TestService_Import_UnknownFormat(t *testing.T) {
	svc := importer.NewService(time.UTC, nil)

	_, err := svc.Import(context.Background(), "xlsx", strings.NewReader(sheetCSV), "ana")
	assert.Error(t, err)
}
