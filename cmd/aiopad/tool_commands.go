package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/ai"
	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/export"
	"github.com/kim-mac/aiopad/internal/ocr"
)

var exportCmd = &cobra.Command{
	Use:   "export <note>",
	Short: "Export a note as pdf, docx or txt",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runExport),
}

var aiCmd = &cobra.Command{
	Use:   "ai <operation> <note>",
	Short: "Run a writing assistant operation on a note",
	Long: "Run a writing assistant operation on a note's content.\n\n" +
		"Operations: complete, summarize, improve, paraphrase, detect and humanize.\n" +
		"The first four call the configured chat completion endpoint.\n" +
		"Without --apply the result is only printed.",
	Args: cobra.ExactArgs(2),
	RunE: withSession(runAI),
}

var ocrCmd = &cobra.Command{
	Use:   "ocr <note> <image>",
	Short: "Recognize handwriting and add the text to a note",
	Long: "Recognize handwriting in a PNG or JPEG image, or in a JSON stroke\n" +
		"recording, and append the text to the note.",
	Args: cobra.ExactArgs(2),
	RunE: withSession(runOCR),
}

var (
	exportFormat string
	exportOutput string

	aiApply bool
	aiJSON  bool

	ocrPrint bool
)

func init() {
	rootCmd.AddCommand(exportCmd, aiCmd, ocrCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.TXT), "pdf, docx or txt")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file or directory to write (default: current directory)")

	aiCmd.Flags().BoolVar(&aiApply, "apply", false, "merge the result into the note")
	aiCmd.Flags().BoolVar(&aiJSON, "json", false, "output as JSON")

	ocrCmd.Flags().BoolVar(&ocrPrint, "print", false, "print the text without changing the note")
}

func runExport(cmd *cobra.Command, s *session, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	if n.IsLocked {
		return errors.New(app.MsgLocked)
	}

	path := exportOutput
	if path == "" {
		path = export.Filename(n.Title, format)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.Filename(n.Title, format))
	}
	if err := export.WriteFile(path, format, n); err != nil {
		s.log.Errorw("export failed", "note", n.ID, "format", format, "error", err)
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

type aiOutput struct {
	Operation ai.Kind       `json:"operation"`
	Text      string        `json:"text"`
	Detection *ai.Detection `json:"detection,omitempty"`
	Applied   bool          `json:"applied"`
}

func runAI(cmd *cobra.Command, s *session, args []string) error {
	kind, err := ai.ParseKind(args[0])
	if err != nil {
		return err
	}
	n, err := s.findNote(args[1])
	if err != nil {
		return err
	}
	if n.IsLocked {
		return errors.New(app.MsgLocked)
	}

	client := ai.New(s.cfg.AI, s.log, s.metrics)
	res, err := client.Transform(cmd.Context(), kind, n.Content)
	if errors.Is(err, ai.ErrNoAPIKey) {
		return errors.New("no API key configured: set OPENAI_API_KEY or ai.api_key")
	}
	if err != nil {
		return err
	}

	out := aiOutput{Operation: kind, Text: res.Text, Detection: res.Detection}
	if aiApply {
		if merge, msg := app.MergeAI(n.ID, kind, res); merge != nil {
			if _, err := s.dispatch(merge); err != nil {
				return err
			}
			out.Applied = true
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
	}

	if aiJSON {
		return encodeJSON(cmd.OutOrStdout(), out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}

func runOCR(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	if n.IsLocked {
		return errors.New(app.MsgLocked)
	}
	img, err := ocr.LoadImage(args[1])
	if err != nil {
		return err
	}

	text, err := ocr.New(s.cfg.OCR, s.log, s.metrics).Recognize(cmd.Context(), img)
	if errors.Is(err, ocr.ErrNoText) {
		return errors.New("no text recognized")
	}
	if err != nil {
		return err
	}

	if !ocrPrint {
		if _, err := s.dispatch(app.MergeOCR(n.ID, text)); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(text))
	return nil
}
