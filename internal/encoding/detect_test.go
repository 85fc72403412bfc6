package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/washrent/internal/encoding"
)

const header = "Fecha;Descripción;Valor\nPago Ferretería;Año;-18.000\n"

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name  string
		input func(t *testing.T) []byte
	}

	tests := []testCase{
		{
			name:  "UTF8Passthrough",
			input: func(*testing.T) []byte { return []byte(header) },
		},
		{
			name: "UTF8BOM",
			input: func(*testing.T) []byte {
				return append([]byte{0xEF, 0xBB, 0xBF}, header...)
			},
		},
		{
			name: "Windows1252",
			input: func(t *testing.T) []byte {
				s, err := charmap.Windows1252.NewEncoder().String(header)
				require.NoError(t, err)

				return []byte(s)
			},
		},
		{
			name: "UTF16LE",
			input: func(t *testing.T) []byte {
				s, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(header)
				require.NoError(t, err)

				return []byte(s)
			},
		},
		{
			name: "UTF16BE",
			input: func(t *testing.T) []byte {
				s, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(header)
				require.NoError(t, err)

				return []byte(s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, header, readAll(t, tt.input(t)))
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Empty(t, readAll(t, nil))
}

func TestDetect_UTF8IsNil(t *testing.T) {
	assert.Nil(t, encoding.Detect([]byte("concepto;valor")))
}
