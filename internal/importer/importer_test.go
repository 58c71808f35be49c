package importer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/importer/cgd"
	"github.com/MrJamesThe3rd/tally/internal/movement"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
		wantComma   rune
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte("Descrição;Montante\nCafé;12,50\n"),
			want:        "Descrição;Montante\nCafé;12,50\n",
			wantCharset: "UTF-8",
			wantComma:   ';',
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Description,Amount\n")...),
			want:        "Date,Description,Amount\n",
			wantCharset: "UTF-8",
			wantComma:   ',',
		},
		{
			name: "Latin1",
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
				'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
			},
			want:      "Descrição;Montante\n",
			wantComma: ';',
		},
		{
			name:        "TabsAfterBlankLine",
			input:       []byte("\n\nDate\tDescription\tAmount\n"),
			want:        "\n\nDate\tDescription\tAmount\n",
			wantCharset: "UTF-8",
			wantComma:   '\t',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := importer.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantComma, d.Comma)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, d.Charset)
			} else {
				assert.NotEqual(t, "UTF-8", d.Charset)
			}
		})
	}
}

func TestTableParser_Generic(t *testing.T) {
	p := importer.NewTableParser(importer.BankGeneric, importer.GenericProfiles...)

	drafts, err := p.Parse(strings.NewReader(`Date,Description,Amount
2025-04-01,Salary,"2,500.00"
2025-04-03,Coffee,-3.2
not a date,Totals,0
`))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, movement.TypeIncome, drafts[0].Type)
	assert.True(t, decimal.RequireFromString("2500").Equal(drafts[0].Amount))
	assert.Equal(t, movement.TypeExpense, drafts[1].Type)
	assert.True(t, decimal.RequireFromString("3.20").Equal(drafts[1].Amount))
}

func TestService_Import(t *testing.T) {
	svc := importer.NewService(map[importer.Bank]importer.Parser{
		importer.BankCGD:     cgd.New(),
		importer.BankGeneric: importer.NewTableParser(importer.BankGeneric, importer.GenericProfiles...),
	})

	assert.Equal(t, []importer.Bank{importer.BankCGD, importer.BankGeneric}, svc.Banks())

	_, err := svc.Import("nope", strings.NewReader(""))
	assert.ErrorIs(t, err, importer.ErrUnknownBank)

	drafts, err := svc.Import(importer.BankCGD, strings.NewReader("Data mov.;Descrição;Montante\n30-01-2026;X;-1,00\n"))
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}
