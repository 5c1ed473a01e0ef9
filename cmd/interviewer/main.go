package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rsharan/interviewer/internal/bank"
	"github.com/rsharan/interviewer/internal/handler"
	appI18n "github.com/rsharan/interviewer/internal/i18n"
	"github.com/rsharan/interviewer/internal/interview"
	"github.com/rsharan/interviewer/internal/model"
	"github.com/rsharan/interviewer/internal/report"
	"github.com/rsharan/interviewer/internal/speech"
	"github.com/rsharan/interviewer/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "interviewer",
		Short: "Scripted mock-interview server with keyword-based answer scoring",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `interviewer --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP interview server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "interviewer.db", "SQLite report archive path")
	f.StringSliceP("bank", "b", []string{"questions/interview_en.json"}, "Paths to question bank JSON files (repeatable)")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.String("project", "mock-interviews", "Project name recorded in the archive and used by export")
	f.IntP("num-questions", "n", 5, "Default number of questions per interview")
	f.String("reports-dir", "data/reports", "Directory for per-session report JSON files")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("speech-url", "", "OpenAI-compatible audio API base URL (empty = provider default)")
	f.String("speech-key", "", "API key for the speech service (empty disables voice mode)")
	f.String("stt-model", "whisper-1", "Speech-to-text model name")
	f.String("tts-model", "tts-1", "Text-to-speech model name")
	f.String("tts-voice", "alloy", "Text-to-speech voice")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived interview reports as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "interviewer.db", "SQLite report archive path")
	f.String("project", "", "Project name override (default: the value recorded by serve)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("INTERVIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("interviewer")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/interviewer")
	v.AddConfigPath("/etc/interviewer")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Open the report archive.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Load the question bank from all specified files.
	questionBank := bank.New(nil)
	if err := loadBank(questionBank, db, v.GetStringSlice("bank")); err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Record serve-time settings so a later export run sees them.
	if err := db.SetMetadata("project", v.GetString("project")); err != nil {
		return fmt.Errorf("record project metadata: %w", err)
	}
	if err := db.SetMetadata("lang", lang); err != nil {
		return fmt.Errorf("record lang metadata: %w", err)
	}

	// Report sinks: one JSON file per session, plus the archive.
	fileSink, err := report.NewFileSink(v.GetString("reports-dir"))
	if err != nil {
		return fmt.Errorf("create report sink: %w", err)
	}
	builder := report.NewBuilder(fileSink, db)

	manager := interview.NewManager(questionBank, interview.NewMemoryStore(), builder)

	// Voice mode is optional: no key, no speech routes.
	var speechClient *speech.Client
	if key := v.GetString("speech-key"); key != "" {
		speechClient = speech.New(
			v.GetString("speech-url"),
			key,
			v.GetString("stt-model"),
			v.GetString("tts-model"),
			v.GetString("tts-voice"),
		)
		slog.Info("voice mode enabled",
			"stt_model", v.GetString("stt-model"),
			"tts_model", v.GetString("tts-model"))
	}

	webCfg := model.WebConfig{
		DefaultQuestions: v.GetInt("num-questions"),
		SecureCookies:    v.GetBool("secure-cookies"),
	}

	h := handler.New(questionBank, manager, speechClient, webCfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"categories", questionBank.Categories(),
		"num_questions", webCfg.DefaultQuestions,
		"reports_dir", v.GetString("reports-dir"),
		"voice", speechClient != nil,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportAllReports(v.GetString("project"))
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

// loadBank loads bank files into memory and records their content hashes,
// so a changed bank is flagged against previously archived reports.
func loadBank(b *bank.Bank, db *store.Store, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		hash := sha256sum(data)
		storedHash, err := db.GetBankFileHash(path)
		if err != nil {
			return fmt.Errorf("check bank hash for %s: %w", path, err)
		}
		if storedHash != "" && storedHash != hash {
			slog.Warn("bank file changed since earlier runs; archived reports refer to the old questions",
				"path", path)
		}
		if err := db.SetBankFileHash(path, hash); err != nil {
			return fmt.Errorf("record bank hash for %s: %w", path, err)
		}

		if err := b.Load(data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		slog.Info("loaded question bank", "path", path)
	}

	for _, category := range b.Categories() {
		slog.Info("bank category", "name", category, "questions", b.Size(category))
	}
	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
