package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"studyrag/internal/chunker"
	"studyrag/internal/composer"
	"studyrag/internal/config"
	"studyrag/internal/domain"
	"studyrag/internal/scorer/sparse"
	"studyrag/internal/scorer/tfidf"
	"studyrag/internal/service"
	"studyrag/internal/summarizer"
	"studyrag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/studyrag/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: studyrag [--config=config.yaml] lecture1.pdf [notes.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	ch, err := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap, chunker.Unit(cfg.Chunker.Unit), cfg.Chunker.SpanPages)
	if err != nil {
		log.Fatalf("invalid chunker config: %v", err)
	}

	variant := sparse.Variant(cfg.Retrieval.SparseVariant)
	if _, err := sparse.New(variant); err != nil {
		log.Fatalf("invalid retrieval config: %v", err)
	}
	newSparse := func() domain.Scorer {
		s, _ := sparse.New(variant)
		return s
	}
	newDense := func() domain.Scorer { return tfidf.New() }

	method := domain.Method(cfg.Retrieval.Method)
	switch method {
	case domain.MethodSparse, domain.MethodDense, domain.MethodAuto:
	default:
		log.Fatalf("unknown retrieval method: %s", cfg.Retrieval.Method)
	}

	comp := composer.New(cfg.Answer.MaxKeyPoints)
	sum := summarizer.NewFrequencySummarizer()

	svc := service.NewStudyService(ch, newSparse, newDense, comp, sum,
		cfg.Summarizer.MaxSentences, cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	summary, err := svc.IngestFiles(inputs)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	m := tui.New(svc, summary, method, cfg.Retrieval.TopK, cfg.Retrieval.MinScore)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
