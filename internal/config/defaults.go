package config

const (
	defaultOutputDir       = "."
	defaultPlotDir         = "plots"
	defaultArchivePath     = "~/.local/share/lidarcal/archive.db"
	defaultLogDir          = ""
	defaultEncoding        = "latin1"
	defaultSeparatorLine   = 5
	defaultWorkers         = 1
	defaultBackgroundStart = 1500
	defaultBackgroundEnd   = 1600
	defaultPlotWidth       = 10.0
	defaultPlotHeight      = 6.0
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// DefaultCalibrationChannels are the channels calibrated when none are configured.
var DefaultCalibrationChannels = []string{"1", "2", "11"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:   defaultOutputDir,
			PlotDir:     defaultPlotDir,
			ArchivePath: defaultArchivePath,
			LogDir:      defaultLogDir,
		},
		Parse: Parse{
			Encoding:      defaultEncoding,
			SeparatorLine: defaultSeparatorLine,
			Workers:       defaultWorkers,
		},
		Calibration: Calibration{
			Channels:        append([]string(nil), DefaultCalibrationChannels...),
			BackgroundStart: defaultBackgroundStart,
			BackgroundEnd:   defaultBackgroundEnd,
		},
		Export: Export{
			Indent: true,
		},
		Plot: Plot{
			WidthInches:  defaultPlotWidth,
			HeightInches: defaultPlotHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
