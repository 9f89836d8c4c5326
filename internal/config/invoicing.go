package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InvoicingConfig holds the billing policy applied when invoices are created.
// TaxRate is a fraction (0.18 for 18%) applied to the discounted base,
// never to the raw subtotal.
type InvoicingConfig struct {
	TaxRate            float64 `mapstructure:"taxRate"`
	DefaultCompanyCode string  `mapstructure:"defaultCompanyCode"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		TaxRate:            0.18,
		DefaultCompanyCode: "E0001",
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

func NewInvoicingConfigHolder() (*InvoicingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("facturo")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/facturo/config") // Volume-mounted config
	v.AddConfigPath("/etc/facturo")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("FACTURO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	v.SetDefault("invoicing.taxRate", defaults.TaxRate)
	v.SetDefault("invoicing.defaultCompanyCode", defaults.DefaultCompanyCode)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return nil, err
	}
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoicingConfig
		if err := v.UnmarshalKey("invoicing", &updated); err != nil {
			log.Printf("[invoicing-config] reload failed: %v", err)
			return
		}
		if err := validateInvoicingConfig(updated); err != nil {
			log.Printf("[invoicing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoicing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticInvoicingConfigHolder wraps a fixed config, for tests.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return errors.New("invoicing.taxRate must be a fraction in [0, 1)")
	}
	if strings.TrimSpace(cfg.DefaultCompanyCode) == "" {
		return errors.New("invoicing.defaultCompanyCode cannot be empty")
	}
	return nil
}
