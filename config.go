package hashgraph

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the file form of ClientOptions plus the operator credentials.
type Config struct {
	Network             Network         `json:"network" yaml:"network"`
	Nodes               []NodeAddress   `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Operator            *OperatorConfig `json:"operator,omitempty" yaml:"operator,omitempty"`
	MaxAttempts         int             `json:"maxAttempts,omitempty" yaml:"maxAttempts,omitempty"`
	ReceiptPollInterval string          `json:"receiptPollInterval,omitempty" yaml:"receiptPollInterval,omitempty"`
	DatabasePath        string          `json:"databasePath,omitempty" yaml:"databasePath,omitempty"`
	LogLevel            string          `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

type OperatorConfig struct {
	AccountID AccountID `json:"accountId" yaml:"accountId"`
	// PrivateKey is hex, raw or DER. KeyType forces the family when the raw
	// form is ambiguous.
	PrivateKey string      `json:"privateKey" yaml:"privateKey"`
	KeyType    key.KeyType `json:"keyType,omitempty" yaml:"keyType,omitempty"`
}

func (o *OperatorConfig) parseKey() (*key.PrivateKey, error) {
	switch o.KeyType {
	case key.KeyTypeEd25519:
		return key.ParseEd25519PrivateKeyString(o.PrivateKey)
	case key.KeyTypeECDSASecp256k1:
		return key.ParseECDSAPrivateKeyString(o.PrivateKey)
	}
	return key.ParsePrivateKeyString(o.PrivateKey)
}

// LoadConfig reads YAML when the file extension is .yaml or .yml and JSON
// otherwise.
func LoadConfig(path string) (config *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read config '%s'", path)
		return
	}

	config = &Config{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		err = errors.Wrapf(ErrValidation, "failed to parse config '%s': %v", path, err)
		return nil, err
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return
}

func (c *Config) Validate() error {
	if c.Network != "" {
		if err := c.Network.Validate(); err != nil {
			return errors.Wrap(ErrValidation, err.Error())
		}
	}

	for _, node := range c.Nodes {
		if node.Address == "" {
			return errors.Wrapf(ErrValidation, "node %s has no address", node.AccountID)
		}
		if err := node.AccountID.Validate(); err != nil {
			return err
		}
	}

	if c.MaxAttempts < 0 {
		return errors.Wrapf(ErrValidation, "max attempts cannot be negative: %d", c.MaxAttempts)
	}

	if _, err := c.receiptPollInterval(); err != nil {
		return err
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return errors.Wrapf(ErrValidation, "log level: %v", err)
		}
	}

	if c.Operator != nil {
		if err := c.Operator.AccountID.Validate(); err != nil {
			return err
		}
		if c.Operator.PrivateKey == "" {
			return errors.Wrap(ErrValidation, "operator private key is required")
		}
	}

	return nil
}

func (c *Config) receiptPollInterval() (d time.Duration, err error) {
	if c.ReceiptPollInterval == "" {
		return
	}
	if d, err = time.ParseDuration(c.ReceiptPollInterval); err != nil || d < 0 {
		err = errors.Wrapf(ErrValidation, "invalid receipt poll interval '%s'", c.ReceiptPollInterval)
	}
	return
}

// ClientOptions opens the configured database, if any. Closing the client
// closes it.
func (c *Config) ClientOptions() (options *ClientOptions, err error) {
	interval, err := c.receiptPollInterval()
	if err != nil {
		return
	}

	options = &ClientOptions{
		Network:             c.Network,
		Nodes:               c.Nodes,
		MaxAttempts:         c.MaxAttempts,
		ReceiptPollInterval: interval,
	}

	if c.DatabasePath != "" {
		if options.Database, err = NewSqlLiteDatabase(c.DatabasePath); err != nil {
			return nil, err
		}
	}

	return
}

// NewClient applies the log level, builds the client and sets the operator.
func (c *Config) NewClient() (client *Client, err error) {
	if c.LogLevel != "" {
		level, err2 := zerolog.ParseLevel(c.LogLevel)
		if err2 != nil {
			return nil, errors.Wrapf(ErrValidation, "log level: %v", err2)
		}
		SetLogLevel(level)
	}

	options, err := c.ClientOptions()
	if err != nil {
		return
	}

	if client, err = NewClient(options); err != nil {
		if options.Database != nil {
			_ = options.Database.Close()
		}
		return
	}

	if c.Operator != nil {
		var privateKey *key.PrivateKey
		if privateKey, err = c.Operator.parseKey(); err != nil {
			_ = client.Close()
			return nil, err
		}
		if err = client.SetOperator(c.Operator.AccountID, privateKey); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	return
}
