// Package main is the entry point for the typeset CLI, which converts
// Markdown files to PDF, DOCX, XLSX, and PPTX, and can append to or
// replace matching pages of an existing PDF or PPTX.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/typeset"
	"github.com/tsawler/typeset/format"
)

var rootCmd = &cobra.Command{
	Use:   "typeset <input.md>",
	Short: "Convert Markdown to PDF, DOCX, XLSX, or PPTX",
	Long: `typeset converts a Markdown document into a PDF, Word document, Excel
spreadsheet, or PowerPoint presentation.

For PDF and PPTX it can also update an existing artifact: --append adds
the new content as extra pages or slides, and --replace substitutes
pages or slides whose titles match the document's level-2 headings,
appending whatever does not match.`,
	Example: `  typeset report.md
  typeset report.md --format docx -o report.docx
  typeset new-slides.md --format pptx --append deck.pptx -o deck-v2.pptx
  typeset updates.md --format pptx --replace deck.pptx -o deck-v2.pptx`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,

	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./typeset.yaml or ~/.config/typeset/config.yaml)")

	rootCmd.Flags().String("format", "pdf", "output format: pdf, docx, xlsx, or pptx")
	rootCmd.Flags().StringP("output", "o", "", "output file (default: input name with format extension)")
	rootCmd.Flags().String("append", "", "append to this existing file (pdf and pptx only)")
	rootCmd.Flags().String("replace", "", "replace matching pages/slides in this existing file (pdf and pptx only)")
}

// initConfig locates and reads the optional config file and binds the
// TYPESET_* environment variables.
func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("typeset")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "typeset"))
		}
	}

	viper.SetEnvPrefix("TYPESET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	formatName, _ := cmd.Flags().GetString("format")
	f, err := format.Parse(formatName)
	if err != nil {
		return err
	}

	appendTo, _ := cmd.Flags().GetString("append")
	replaceIn, _ := cmd.Flags().GetString("replace")
	if appendTo != "" && replaceIn != "" {
		return fmt.Errorf("cannot use both --append and --replace")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + f.Extension()
	}

	conv := typeset.From(input).Format(f).WithOptions(optionsFromConfig())
	if appendTo != "" {
		conv = conv.AppendTo(appendTo)
	}
	if replaceIn != "" {
		conv = conv.ReplaceIn(replaceIn)
	}

	result, warnings, err := conv.WriteTo(output)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w.Message)
	}
	if err != nil {
		return err
	}

	report(result, appendTo != "" || replaceIn != "")
	return nil
}

// report prints the original's completion summary.
func report(res typeset.Result, merged bool) {
	var kind string
	switch res.Format {
	case format.PDF:
		kind = "PDF"
	case format.DOCX:
		kind = "Word document"
	case format.XLSX:
		kind = "Excel spreadsheet"
	case format.PPTX:
		kind = "PowerPoint presentation"
	}
	fmt.Printf("%s created successfully: %s\n", kind, res.Output)

	if !merged {
		return
	}
	unit := "pages"
	if res.Format == format.PPTX {
		unit = "slides"
	}
	fmt.Printf("  Original %s: %d\n", unit, res.Existing)
	if res.Replaced > 0 {
		fmt.Printf("  Replaced %s: %d\n", unit, res.Replaced)
	}
	if res.Appended > 0 {
		fmt.Printf("  Appended %s: %d\n", unit, res.Appended)
	}
	fmt.Printf("  Total %s: %d\n", unit, res.Kept+res.Replaced+res.Appended)
}

// optionsFromConfig resolves styling options from the config file and
// environment into an explicit Options value. Absent keys keep the
// library defaults.
func optionsFromConfig() typeset.Options {
	opts := typeset.DefaultOptions()

	if v := viper.GetString("pdf.page_size"); v != "" {
		opts.PDF.PageSize = v
	}
	if v := viper.GetString("pdf.orientation"); v != "" {
		opts.PDF.Orientation = v
	}
	if v := viper.GetString("pdf.font_family"); v != "" {
		opts.PDF.FontFamily = v
	}
	if v := viper.GetFloat64("pdf.base_font_size"); v > 0 {
		opts.PDF.BaseFontSize = v
	}
	if v := viper.GetString("xlsx.sheet_name"); v != "" {
		opts.XLSX.SheetName = v
	}
	if v := viper.GetString("xlsx.header_fill"); v != "" {
		opts.XLSX.HeaderFill = v
	}
	if v := viper.GetFloat64("xlsx.max_col_width"); v > 0 {
		opts.XLSX.MaxColWidth = v
	}
	if v := viper.GetFloat64("pptx.slide_width_in"); v > 0 {
		opts.PPTX.SlideWidthEMU = int(v * 914400)
	}
	if v := viper.GetFloat64("pptx.slide_height_in"); v > 0 {
		opts.PPTX.SlideHeightEMU = int(v * 914400)
	}
	return opts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
