// Package cgd reads statement exports from Caixa Geral de Depósitos.
package cgd

import "github.com/MrJamesThe3rd/tally/internal/importer"

const dateLayout = "02-01-2006"

// Profiles lists the CGD export formats, most specific first.
var Profiles = []importer.Profile{
	{
		Name:         "cartão",
		DateCol:      "Data",
		DescCol:      "Descrição",
		DebitCol:     "Débito",
		CreditCol:    "Crédito",
		DateLayouts:  []string{dateLayout},
		DecimalComma: true,
	},
	{
		Name:         "extrato",
		DateCol:      "Data mov.",
		DescCol:      "Descrição",
		AmountCol:    "Movimento",
		DateLayouts:  []string{dateLayout},
		DecimalComma: true,
	},
	{
		Name:         "conta",
		DateCol:      "Data mov.",
		DescCol:      "Descrição",
		AmountCol:    "Montante",
		DateLayouts:  []string{dateLayout},
		DecimalComma: true,
	},
}

func New() *importer.TableParser {
	return importer.NewTableParser(importer.BankCGD, Profiles...)
}
