package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scrub/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// whisper.cpp full-JSON output: segments under "transcription", token-level
// detail under "tokens", millisecond offsets, per-token probability "p".
type wireOutput struct {
	Transcription []wireSegment `json:"transcription"`
}

type wireSegment struct {
	Offsets wireOffsets `json:"offsets"`
	Text    string      `json:"text"`
	Tokens  []wireToken `json:"tokens"`
}

type wireToken struct {
	Text    string      `json:"text"`
	Offsets wireOffsets `json:"offsets"`
	P       float64     `json:"p"`
}

type wireOffsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Transcribe runs whisper.cpp over the extracted wav and converts its full
// JSON output into a word-timestamped transcript. Token probabilities carry
// through as word confidence.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-ojf",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}
	return parseOutput(jb)
}

func parseOutput(data []byte) (types.Transcript, error) {
	var out wireOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return types.Transcript{}, fmt.Errorf("parse whisper output: %w", err)
	}

	tr := types.Transcript{Segments: make([]types.Segment, 0, len(out.Transcription))}
	for _, ws := range out.Transcription {
		seg := types.Segment{
			Start: msToSeconds(ws.Offsets.From),
			End:   msToSeconds(ws.Offsets.To),
			Text:  strings.TrimSpace(ws.Text),
		}
		for _, tok := range ws.Tokens {
			word := strings.TrimSpace(tok.Text)
			// Special tokens like [_BEG_] mark decoder state, not speech.
			if word == "" || strings.HasPrefix(word, "[_") {
				continue
			}
			seg.Words = append(seg.Words, types.Word{
				Start:      msToSeconds(tok.Offsets.From),
				End:        msToSeconds(tok.Offsets.To),
				Word:       word,
				Confidence: tok.P,
			})
		}
		tr.Segments = append(tr.Segments, seg)
	}
	return tr, nil
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000.0
}
