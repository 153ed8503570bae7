package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"domx/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	FigmaConfig struct {
		Token           SecretString  `yaml:"token"`
		APIURL          string        `yaml:"api_url" validate:"required,url"`
		RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gte=0"`
		URLLengthBudget int           `yaml:"url_length_budget" validate:"min=100"`
		MaxBatch        int           `yaml:"max_batch" validate:"min=1,max=50"`
		Geometry        string        `yaml:"geometry" validate:"omitempty,oneof=paths"`
	}

	StorageConfig struct {
		DataDir string `yaml:"data_dir" sanitize:"path_clean" validate:"required"`
	}

	RasterizeConfig struct {
		Enable bool `yaml:"enable"`
		Width  int  `yaml:"width" validate:"gte=0"`
	}

	AssetsConfig struct {
		Concurrency  int             `yaml:"concurrency" validate:"gte=0"`
		PollInterval time.Duration   `yaml:"poll_interval" validate:"gt=0"`
		WaitTimeout  time.Duration   `yaml:"wait_timeout" validate:"gte=0"`
		OutDir       string          `yaml:"out_dir"`
		Prefix       string          `yaml:"prefix"`
		RasterizeSVG RasterizeConfig `yaml:"rasterize_svg"`
	}

	NodeImageConfig struct {
		Format common.ImageFormat `yaml:"format"`
		Scale  float64            `yaml:"scale" validate:"gt=0,lte=4"`
	}

	TemplatesConfig struct {
		Extensions []string `yaml:"extensions" validate:"dive,required,startswith=."`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Figma     FigmaConfig     `yaml:"figma"`
		Storage   StorageConfig   `yaml:"storage"`
		Assets    AssetsConfig    `yaml:"assets"`
		NodeImage NodeImageConfig `yaml:"node_image"`
		Templates TemplatesConfig `yaml:"templates"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
