package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"slidecast/internal/compositor"
	"slidecast/internal/config"
	"slidecast/internal/diagram"
	"slidecast/internal/fetch"
	"slidecast/internal/ledger"
	"slidecast/internal/media/ffmpeg"
	"slidecast/internal/media/ffprobe"
	"slidecast/internal/muxer"
	"slidecast/internal/narration"
)

// NewFromConfig wires the production collaborators: the HTTP image fetcher,
// mermaid-cli, the Kokoro speech service, ffmpeg, ffprobe and the ledger.
// Callers must Close the returned Pipeline.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	comp, err := compositor.New(cfg, fetch.New(nil), diagram.NewRenderer(cfg, logger), logger)
	if err != nil {
		return nil, err
	}
	encoder := ffmpeg.New(cfg, logger)
	synth := narration.NewSynthesizer(
		narration.NewKokoroClient(cfg, nil),
		encoder,
		cfg.Narration.PauseSeconds,
		logger,
	)

	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	p, err := New(Options{
		Config:   cfg,
		Logger:   logger,
		Composer: comp,
		Narrator: synth,
		Prober:   ffprobe.NewProber(cfg.FFprobeBinary()),
		Muxer:    muxer.New(encoder, filepath.Join(cfg.Paths.StateDir, "tmp"), logger),
		Ledger:   store,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return p, nil
}
