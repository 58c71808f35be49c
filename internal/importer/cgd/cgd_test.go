package cgd_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/tally/internal/importer/cgd"
	"github.com/MrJamesThe3rd/tally/internal/movement"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestParse_Formats(t *testing.T) {
	type line struct {
		date   time.Time
		desc   string
		amount string
		typ    movement.Type
	}

	type testCase struct {
		name string
		csv  string
		want []line
	}

	tests := []testCase{
		{
			name: "Conta",
			csv: `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE

Dados da consulta
Período;Últimos 90 dias

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`,
			want: []line{
				{date(2026, 1, 30), "INSTITUTO GESTAO FINA", "588.74", movement.TypeExpense},
				{date(2026, 1, 9), "TFI Wise", "8608.52", movement.TypeIncome},
			},
		},
		{
			name: "Extrato",
			csv: `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`,
			want: []line{
				{date(2026, 2, 13), "PAGAMENTO TSU", "608.13", movement.TypeExpense},
				{date(2026, 2, 4), "TFI Wise", "4324.06", movement.TypeIncome},
			},
		},
		{
			name: "Cartao",
			csv: `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;REFUND AMAZON ; ;25,00 ;
 ; ; ; ;Página 1/2 ;
`,
			want: []line{
				{date(2025, 12, 16), "PA GONDOMAR         GONDOMAR", "64", movement.TypeExpense},
				{date(2025, 12, 31), "REFUND AMAZON", "25", movement.TypeIncome},
			},
		},
		{
			name: "DifferentColumnOrder",
			csv: `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-1.234.567,89;BIG TRANSFER;30-01-2026;XXX
Totais;;;;
`,
			want: []line{
				{date(2026, 1, 30), "BIG TRANSFER", "1234567.89", movement.TypeExpense},
			},
		},
		{
			name: "HeaderOnly",
			csv:  `Data mov.;Data-valor;Descrição;Montante`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cgd.New().Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i, w := range tt.want {
				assert.Equal(t, w.date, got[i].Date)
				assert.Equal(t, w.desc, got[i].Description)
				assert.Equal(t, w.typ, got[i].Type)
				assertAmount(t, w.amount, got[i].Amount)
				assert.Equal(t, movement.Origin(""), got[i].Origin)
			}
		})
	}
}

func TestParse_Latin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"))
	require.NoError(t, err)

	got, err := cgd.New().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CAFÉ CENTRAL", got[0].Description)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{name: "Empty", csv: "", wantMsg: "no matching cgd format"},
		{name: "MissingDescription", csv: "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n", wantMsg: "row 2: missing description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cgd.New().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
