package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath        string
	RunID         int64
	InputFile     string
	OutputFile    string
	Format        ImageFormat
	FontFile      string
	Theme         ColorTheme
	BinWidth      int
	ChartHeight   int
	NoAnnotations bool
	Verbose       bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format:      ImagePNG,
		Theme:       ClassicTheme,
		BinWidth:    defaultBinWidth,
		ChartHeight: defaultChartHeight,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat, theme string
	flag.StringVar(&c.DBPath, "db", "", "Path to the plan catalog database file")
	flag.Int64Var(&c.RunID, "r", 0, "Run ID to render from the catalog")
	flag.StringVar(&c.InputFile, "i", "", "Path to a band plan JSON file (alternative to -db/-r)")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontFile, "font", "", "Path to a TTF font file for annotations (built-in bitmap font if omitted)")
	flag.StringVar(&theme, "theme", string(ClassicTheme), "Signal color theme. [classic, pastel, grayscale]")
	flag.IntVar(&c.BinWidth, "bin-width", defaultBinWidth, "Rendered width of one bin in pixels")
	flag.IntVar(&c.ChartHeight, "height", defaultChartHeight, "Rendered chart height in pixels")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as the frequency scale and info bar")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	switch {
	case c.InputFile == "" && c.DBPath == "":
		err = errors.New("either an input file or a catalog database is required")
	case c.InputFile != "" && c.DBPath != "":
		err = errors.New("input file and catalog database are mutually exclusive")
	case c.DBPath != "" && c.RunID <= 0:
		err = errors.New("run id is required when reading from the catalog")
	case c.OutputFile == "":
		err = errors.New("output file is required")
	case c.BinWidth < 1 || c.ChartHeight < 1:
		err = errors.New("bin width and chart height must be positive")
	default:
		if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
			err = fmt.Errorf("invalid image format: %s", imageFormat)
		}
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.Theme = ColorTheme(theme)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
