// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the unit quote config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/payment-plans/internal/plans"
	"github.com/iwvelando/payment-plans/internal/quote"
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/datetime"
	"github.com/iwvelando/payment-plans/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds everything needed to quote one unit.
type Configuration struct {
	Unit         UnitConfig    `yaml:"unit" mapstructure:"unit"`
	Selection    []string      `yaml:"selection,omitempty" mapstructure:"selection"`
	ContractDate string        `yaml:"contractDate,omitempty" mapstructure:"contractDate"`
	Quote        QuoteConfig   `yaml:"quote,omitempty" mapstructure:"quote"`
	Logging      LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// UnitConfig is the unit as written in the config file. Price is kept as text
// so both 1250000 and "1,250,000" are accepted.
type UnitConfig struct {
	Price          string  `yaml:"price" mapstructure:"price"`
	UnitType       string  `yaml:"unitType,omitempty" mapstructure:"unitType"`
	Rooms          string  `yaml:"rooms,omitempty" mapstructure:"rooms"`
	BUA            float64 `yaml:"bua,omitempty" mapstructure:"bua"`
	GardenRoofArea float64 `yaml:"gardenRoofArea,omitempty" mapstructure:"gardenRoofArea"`
	Floor          string  `yaml:"floor,omitempty" mapstructure:"floor"`
	Building       string  `yaml:"building,omitempty" mapstructure:"building"`
}

// QuoteConfig holds the branding printed on PDF quotes.
type QuoteConfig struct {
	Company  string   `yaml:"company,omitempty" mapstructure:"company"`
	Project  string   `yaml:"project,omitempty" mapstructure:"project"`
	Tagline  string   `yaml:"tagline,omitempty" mapstructure:"tagline"`
	Footer   []string `yaml:"footer,omitempty" mapstructure:"footer"`
	FontFile string   `yaml:"fontFile,omitempty" mapstructure:"fontFile"` // TrueType font for non-Latin unit details
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `yaml:"format,omitempty" mapstructure:"format"`   // pretty, comparison, csv, json, pdf
	PDFFile string `yaml:"pdfFile,omitempty" mapstructure:"pdfFile"` // defaults to PLDG_Quote_<price>.pdf
}

// keys registered up front so PAYMENT_PLANS_* environment variables can set
// values the file leaves out.
var knownKeys = []string{
	"unit.price", "unit.unitType", "unit.rooms", "unit.bua", "unit.gardenRoofArea",
	"unit.floor", "unit.building",
	"selection", "contractDate",
	"quote.company", "quote.project", "quote.tagline", "quote.footer", "quote.fontFile",
	"logging.level", "logging.format", "logging.outputFile",
	"output.format", "output.pdfFile",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range knownKeys {
		v.SetDefault(key, nil)
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Selection = validation.ParseSelection(strings.Join(configuration.Selection, ","))
	configuration.Quote = configuration.Quote.WithDefaults()
	return &configuration, nil
}

// WithDefaults fills unset branding fields with the stock PLDG branding.
func (q QuoteConfig) WithDefaults() QuoteConfig {
	if q.Company == "" {
		q.Company = constants.DefaultCompany
	}
	if q.Project == "" {
		q.Project = constants.DefaultProject
	}
	if q.Tagline == "" {
		q.Tagline = constants.DefaultTagline
	}
	if len(q.Footer) == 0 {
		q.Footer = []string{constants.DefaultFooter1, constants.DefaultFooter2}
	}
	return q
}

// Branding converts the quote section for the PDF renderer.
func (q QuoteConfig) Branding() quote.Branding {
	q = q.WithDefaults()
	return quote.Branding{
		Company:  q.Company,
		Project:  q.Project,
		Tagline:  q.Tagline,
		Footer:   q.Footer,
		FontFile: q.FontFile,
	}
}

// Price parses the configured unit price.
func (c *Configuration) Price() (int64, error) {
	return validation.ParsePrice(c.Unit.Price)
}

// UnitInfo converts the configured unit into the form the plan calculator
// takes.
func (c *Configuration) UnitInfo() (plans.UnitInfo, error) {
	price, err := c.Price()
	if err != nil {
		return plans.UnitInfo{}, err
	}
	return plans.UnitInfo{
		UnitType:       c.Unit.UnitType,
		TotalPrice:     price,
		BUA:            c.Unit.BUA,
		GardenRoofArea: c.Unit.GardenRoofArea,
		Rooms:          c.Unit.Rooms,
		Floor:          c.Unit.Floor,
		Building:       c.Unit.Building,
	}, nil
}

// ContractTime resolves the contract date; an unset date means today.
func (c *Configuration) ContractTime(now time.Time) (time.Time, error) {
	return datetime.ParseContractDate(c.ContractDate, now)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Errors that make the configuration unusable, such as an
// unparseable price, are reported as warnings too; the caller decides whether
// to stop.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	unit, err := c.UnitInfo()
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Unit price: %v", err))
	} else {
		warnings = append(warnings, validation.ValidateUnit(unit)...)
	}

	if err := validation.ValidateSelection(c.Selection, plans.IDs()); err != nil {
		warnings = append(warnings, fmt.Sprintf("Selection: %v", err))
	}

	if _, err := c.ContractTime(time.Now()); err != nil {
		warnings = append(warnings, fmt.Sprintf("Contract date: %v", err))
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, fmt.Sprintf("Output: %v", err))
		}
	}

	return warnings
}
