package config

const (
	defaultTranscribedDir = "~/recordings/transcribed"
	defaultQCDir          = "~/recordings/qc"
	defaultQueueDir       = "~/recordings"
	defaultLogDir         = "~/.local/share/scribe/logs"
	defaultPlaybackSpeed  = 1.5
	defaultClipFormat     = "mp3"
	defaultSegmentFile    = "result.json"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultFFplayBinary   = "ffplay"
)

func defaultAudioExtensions() []string {
	return []string{"mp3", "m4a", "wav", "flac"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TranscribedDir: defaultTranscribedDir,
			QCDir:          defaultQCDir,
			QueueDir:       defaultQueueDir,
			LogDir:         defaultLogDir,
		},
		Review: Review{
			PlaybackSpeed:   defaultPlaybackSpeed,
			ClipFormat:      defaultClipFormat,
			AudioExtensions: defaultAudioExtensions(),
			SegmentFile:     defaultSegmentFile,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			FFplay:  defaultFFplayBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
