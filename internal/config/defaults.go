package config

const (
	defaultLogDir          = "~/.local/share/gggkit/logs"
	defaultCatalogPath     = "~/.local/share/gggkit/catalog.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultOutputSuffix    = "_syn"
	defaultV0              = 4750
	defaultV1              = 8250
	defaultDeltaNu         = 0.0111111111
	defaultSNR             = 1000
	defaultBPW             = 7
	defaultPointer         = 0
	defaultAPF             = "N1"
	defaultNamePattern     = "sfddaa"
	defaultSpectrumWorkers = 4
)

// defaultWindows maps the leading letter of a spectrum name to the centre
// wavenumber (cm-1) of its fitting window.
func defaultWindows() map[string]float64 {
	return map[string]float64{
		"y": 6339,
		"w": 6073,
		"z": 6220,
		"s": 4852,
		"k": 6500,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
		},
		Runlog: Runlog{
			OutputSuffix: defaultOutputSuffix,
			V0:           defaultV0,
			V1:           defaultV1,
			DeltaNu:      defaultDeltaNu,
			SNR:          defaultSNR,
			BPW:          defaultBPW,
			Pointer:      defaultPointer,
			APF:          defaultAPF,
		},
		Spectrum: Spectrum{
			NamePattern: defaultNamePattern,
			Workers:     defaultSpectrumWorkers,
			Windows:     defaultWindows(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
