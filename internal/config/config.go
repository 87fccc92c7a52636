package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataFolder  string `mapstructure:"data_folder" yaml:"data_folder"`
	ReportName  string `mapstructure:"report_name" yaml:"report_name"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	CatalogFile string `mapstructure:"catalog_file" yaml:"catalog_file"`
	// RandomSeed seeds both the generator and the analyzer's sampling; 0 picks
	// a time-based seed for generation and 42 for analysis.
	RandomSeed uint64 `mapstructure:"random_seed" yaml:"random_seed"`
	TopN       int    `mapstructure:"top_n" yaml:"top_n"`

	// Market basket
	BasketSampleSize int     `mapstructure:"basket_sample_size" yaml:"basket_sample_size"`
	BasketMinSupport float64 `mapstructure:"basket_min_support" yaml:"basket_min_support"`
	BasketMaxRules   int     `mapstructure:"basket_max_rules" yaml:"basket_max_rules"`

	// Anomaly detection
	FraudContamination float64 `mapstructure:"fraud_contamination" yaml:"fraud_contamination"`
	FraudTrees         int     `mapstructure:"fraud_trees" yaml:"fraud_trees"`
	FraudSampleSize    int     `mapstructure:"fraud_sample_size" yaml:"fraud_sample_size"`

	// Charts, in inches
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_folder", "report_name", "log_level", "catalog_file", "random_seed", "top_n",
	"basket_sample_size", "basket_min_support", "basket_max_rules",
	"fraud_contamination", "fraud_trees", "fraud_sample_size",
	"chart_width_in", "chart_height_in",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_folder", ".")
	v.SetDefault("report_name", "report.pdf")
	v.SetDefault("log_level", "warn")
	v.SetDefault("catalog_file", "")
	v.SetDefault("random_seed", 0)
	v.SetDefault("top_n", 10)
	v.SetDefault("basket_sample_size", 50000)
	v.SetDefault("basket_min_support", 0.0005)
	v.SetDefault("basket_max_rules", 25)
	v.SetDefault("fraud_contamination", 0.01)
	v.SetDefault("fraud_trees", 100)
	v.SetDefault("fraud_sample_size", 256)
	v.SetDefault("chart_width_in", 10.0)
	v.SetDefault("chart_height_in", 4.0)
}

// Defaults returns the built-in configuration without consulting files or env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	// defaults always decode
	_ = v.Unmarshal(&c)
	return &c
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.ecomm/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".ecomm")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (ECOMM_*, including values from ./.env) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ECOMM")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".ecomm"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Value formats the named key for display.
func (c *Global) Value(key string) (string, error) {
	switch key {
	case "data_folder":
		return c.DataFolder, nil
	case "report_name":
		return c.ReportName, nil
	case "log_level":
		return c.LogLevel, nil
	case "catalog_file":
		return c.CatalogFile, nil
	case "random_seed":
		return strconv.FormatUint(c.RandomSeed, 10), nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "basket_sample_size":
		return strconv.Itoa(c.BasketSampleSize), nil
	case "basket_min_support":
		return strconv.FormatFloat(c.BasketMinSupport, 'g', -1, 64), nil
	case "basket_max_rules":
		return strconv.Itoa(c.BasketMaxRules), nil
	case "fraud_contamination":
		return strconv.FormatFloat(c.FraudContamination, 'g', -1, 64), nil
	case "fraud_trees":
		return strconv.Itoa(c.FraudTrees), nil
	case "fraud_sample_size":
		return strconv.Itoa(c.FraudSampleSize), nil
	case "chart_width_in":
		return strconv.FormatFloat(c.ChartWidthIn, 'g', -1, 64), nil
	case "chart_height_in":
		return strconv.FormatFloat(c.ChartHeightIn, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("unknown key: %s (valid: %s)", key, strings.Join(Keys, ", "))
}

// Validate rejects values the analyzer cannot work with.
func (c *Global) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("invalid top_n: %d (must be > 0)", c.TopN)
	}
	if c.BasketSampleSize <= 0 {
		return fmt.Errorf("invalid basket_sample_size: %d (must be > 0)", c.BasketSampleSize)
	}
	if c.BasketMinSupport <= 0 || c.BasketMinSupport > 1 {
		return fmt.Errorf("invalid basket_min_support: %g (must be in (0,1])", c.BasketMinSupport)
	}
	if c.FraudContamination <= 0 || c.FraudContamination >= 0.5 {
		return fmt.Errorf("invalid fraud_contamination: %g (must be in (0,0.5))", c.FraudContamination)
	}
	if c.FraudTrees <= 0 {
		return fmt.Errorf("invalid fraud_trees: %d (must be > 0)", c.FraudTrees)
	}
	if c.FraudSampleSize < 2 {
		return fmt.Errorf("invalid fraud_sample_size: %d (must be >= 2)", c.FraudSampleSize)
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("invalid chart size: %gx%g inches", c.ChartWidthIn, c.ChartHeightIn)
	}
	return nil
}
