// trocaxml is the command line companion to the web server. It runs the
// same batch rewrite, summary, and report pipelines against local files.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/archive"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/classify"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/nfcom"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/report"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/rules"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/summary"
)

var rootCmd = &cobra.Command{
	Use:   "trocaxml",
	Short: "Edit, summarize and report NFCom XML invoice archives",
	Long: `trocaxml processes ZIP archives of NFCom XML invoices from the
command line: rewriting CFOP codes per cClass rules, aggregating totals
by classification and item, and rendering delimited reports.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var (
	loteRules          string
	loteOutput         string
	loteRemoveDiscount bool
	loteRemoveOther    bool
)

var loteCmd = &cobra.Command{
	Use:   "lote <entrada.zip>",
	Short: "Apply cClass to CFOP rules to every XML in an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zipData, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var set rules.Set
		if loteRules != "" {
			text, err := os.ReadFile(loteRules)
			if err != nil {
				return err
			}
			set = rules.Parse(string(text))
		}
		if len(set) == 0 && !loteRemoveDiscount && !loteRemoveOther {
			return fmt.Errorf("no rules to apply: pass --regras or a removal flag")
		}

		opts := archive.Options{
			RemoveDiscount: loteRemoveDiscount,
			RemoveOther:    loteRemoveOther,
		}
		out, stats, err := archive.Process(zipData, set, opts, func(processed, total int) {
			fmt.Fprintf(os.Stderr, "\r%d/%d", processed, total)
		})
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}

		if err := os.WriteFile(loteOutput, out, 0o644); err != nil {
			return err
		}
		fmt.Printf("%s: %d arquivos, %d alterados, %d copiados\n",
			loteOutput, stats.Total, stats.Changed, stats.Copied)
		return nil
	},
}

var resumoTable string

var resumoCmd = &cobra.Command{
	Use:   "resumo <entrada.zip>",
	Short: "Aggregate invoice totals by cClass and by item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zipData, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		engine := summary.NewEngine(classify.NewTable(resumoTable))
		result, err := engine.Summarize(zipData, nil)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

var (
	relatorioMapping   string
	relatorioOutput    string
	relatorioDelimiter string
)

var relatorioCmd = &cobra.Command{
	Use:   "relatorio <entrada.zip>",
	Short: "Render a delimited report, one row per invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zipData, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		mappingText, err := os.ReadFile(relatorioMapping)
		if err != nil {
			return err
		}

		mapping, err := report.ParseMapping(string(mappingText))
		if err != nil {
			return err
		}

		delimiter := report.DefaultDelimiter
		if relatorioDelimiter != "" {
			runes := []rune(relatorioDelimiter)
			if len(runes) != 1 {
				return fmt.Errorf("delimiter must be a single character")
			}
			delimiter = runes[0]
		}

		out, err := report.Build(zipData, mapping, delimiter)
		if err != nil {
			return err
		}
		return os.WriteFile(relatorioOutput, out, 0o644)
	},
}

var notaCmd = &cobra.Command{
	Use:   "nota <nota.xml>",
	Short: "Print one invoice as normalized JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		record, err := nfcom.Extract(data)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	},
}

func init() {
	loteCmd.Flags().StringVarP(&loteRules, "regras", "r", "", "rules file, one cClass;CFOP pair per line (separators ; , :)")
	loteCmd.Flags().StringVarP(&loteOutput, "saida", "o", "resultado.zip", "output archive path")
	loteCmd.Flags().BoolVar(&loteRemoveDiscount, "remover-desconto", false, "strip vDesc elements")
	loteCmd.Flags().BoolVar(&loteRemoveOther, "remover-outro", false, "strip vOutro elements")

	resumoCmd.Flags().StringVarP(&resumoTable, "tabela", "t", "Tabela-cClass.xlsx", "cClass description workbook")

	relatorioCmd.Flags().StringVarP(&relatorioMapping, "mapa", "m", "", "column mapping file, one Header;field line per column (separators ; , :)")
	_ = relatorioCmd.MarkFlagRequired("mapa")
	relatorioCmd.Flags().StringVarP(&relatorioOutput, "saida", "o", "relatorio.csv", "output report path")
	relatorioCmd.Flags().StringVarP(&relatorioDelimiter, "delimitador", "d", "", "field delimiter (default ;)")

	rootCmd.AddCommand(loteCmd, resumoCmd, relatorioCmd, notaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
