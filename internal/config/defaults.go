package config

const (
	defaultCacheDir     = "~/.cache/scrub"
	defaultHistoryDB    = "~/.local/share/scrub/history.db"
	defaultWhisperBin   = "~/.cache/scrub/bin/whisper.cpp"
	defaultWhisperModel = "~/.cache/scrub/models/ggml-base.bin"
	defaultPadding      = 0.15
	defaultMergeGap     = 0.5
	defaultPhraseGap    = 2.0
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
)
