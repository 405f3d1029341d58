package ganhos

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// reportHeader matches the spreadsheet the tool historically produced, one
// row per acquisition lot.
var reportHeader = []string{
	"Data",
	"Ação",
	"Operação",
	"Quantidade",
	"Valor ação (dolar)",
	"Total (dolar)",
	"Custos",
	"Operação - custos",
	"Operação - custos (R$)",
	"Câmbio (compra)",
	"Data aquisição",
	"Custo aquisição",
	"Cambio aquisição (venda)",
	"Custo aquisição total",
	"Custo aquisição total (R$)",
	"Lucro (dolar)",
	"Lucro (reais)",
}

// WriteSettlement writes the settled record as CSV, one row per lot.
func WriteSettlement(w io.Writer, s *Settlement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("cannot write report header: %w", err)
	}
	for _, lot := range s.Lots {
		row := []string{
			s.Record.Date.String(),
			s.Record.Ticker,
			"venda",
			strconv.FormatInt(lot.Lot.Quantity, 10),
			s.Record.ShareValue.String(),
			lot.Proceeds.String(),
			lot.Costs.String(),
			lot.NetProceeds.String(),
			lot.NetProceedsSettlement.String(),
			s.SaleRate.Rate.StringFixed(4),
			lot.Lot.Date.String(),
			lot.Lot.CostBasisPerShare.String(),
			lot.AcquisitionRate.Rate.StringFixed(4),
			lot.AcquisitionCost.String(),
			lot.AcquisitionCostSettlement.String(),
			lot.Profit.String(),
			lot.ProfitSettlement.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write report row for %s: %w", s.Record.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportFileName returns the conventional output file name for a settlement.
func ReportFileName(s *Settlement) string {
	day := strings.ReplaceAll(s.Record.Date.String(), "/", "-")
	return fmt.Sprintf("%s_transaction_%s.csv", s.Record.Ticker, day)
}

// SummaryMarkdown renders a short human-readable settlement summary as
// markdown, for terminal display.
func (s *Settlement) SummaryMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: venda de %d ações em %s\n\n", s.Record.Ticker, s.Record.Quantity, s.Record.Date)
	fmt.Fprintf(&b, "- Total: %s, custos: %s, líquido: %s\n",
		s.Record.TotalValue, s.Record.Costs(), s.Record.NetProceeds())
	fmt.Fprintf(&b, "- Câmbio na venda (compra): %s em %s\n\n", s.SaleRate.Rate.StringFixed(4), s.SaleRate.On)
	if s.Adjusted {
		b.WriteString("> Atenção: as quantidades dos lotes foram reajustadas para bater com a venda.\n\n")
	}
	b.WriteString("| Aquisição | Qtd | Câmbio | Líquido (R$) | Custo (R$) | Lucro (R$) |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, lot := range s.Lots {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			lot.Lot.Date, lot.Lot.Quantity, lot.AcquisitionRate.Rate.StringFixed(4),
			lot.NetProceedsSettlement, lot.AcquisitionCostSettlement, lot.ProfitSettlement)
	}
	return b.String()
}
