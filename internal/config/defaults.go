package config

const (
	defaultConfigPath           = "~/.config/lgd-hemis/config.toml"
	defaultStateDir             = "~/.local/share/lgd-hemis"
	defaultMinccalc             = "minccalc"
	defaultExtractWMHemispheres = "extract_wm_hemispheres_fetus"
	defaultPattern              = "**/*seg*.mnc"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"

	envMinccalc  = "LGD_HEMIS_MINCCALC"
	envExtractWM = "LGD_HEMIS_EXTRACT_WM"
)

// DefaultPattern is the segmentation glob used when none is configured.
const DefaultPattern = defaultPattern

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Tools: Tools{
			Minccalc:             defaultMinccalc,
			ExtractWMHemispheres: defaultExtractWMHemispheres,
		},
		Batch: Batch{
			Pattern: defaultPattern,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
