package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	. "github.com/alexdcox/hashgraph-go"
	"github.com/pkg/errors"
)

type _config struct {
	ConfigPath          string `json:"config"`
	DatabasePath        string `json:"databasepath"`
	Network             string `json:"network"`
	OperatorID          string `json:"operatorid"`
	OperatorKey         string `json:"operatorkey"`
	RpcHostPort         string `json:"rpchostport"`
	LogLevel            string `json:"loglevel"`
	ReceiptPollInterval string `json:"receiptpoll"`
	MaxAttempts         int    `json:"maxattempts"`
}

func (c *_config) Load() (err error) {
	flag.StringVar(&c.ConfigPath, "config", "", "Path to a yaml or json client config, flags below override its values")
	flag.StringVar(&c.DatabasePath, "databasepath", "", "Path to the sqlite transaction database (default: hashgraph-rpc.db)")
	flag.StringVar(&c.Network, "network", "", "Set network (mainnet|testnet|previewnet|local)")
	flag.StringVar(&c.OperatorID, "operatorid", "", "Operator account id (shard.realm.num) that pays for transactions")
	flag.StringVar(&c.OperatorKey, "operatorkey", "", "Operator private key, hex or DER. Can also be set via the HASHGRAPH_OPERATOR_KEY environment variable")
	flag.StringVar(&c.RpcHostPort, "rpchostport", "localhost:3002", "Set host:port for the http/rpc listener")
	flag.StringVar(&c.LogLevel, "loglevel", "", "Set the log level (trace|debug|info|warn|error|fatal) Can also be set via the HASHGRAPH_RPC_LOG_LEVEL environment variable")
	flag.StringVar(&c.ReceiptPollInterval, "receiptpoll", "", "Delay between receipt polls, e.g. 500ms (default: none)")
	flag.IntVar(&c.MaxAttempts, "maxattempts", 0, "Set the attempts per request before giving up (default: 10)")
	flag.Parse()

	if c.LogLevel == "" {
		c.LogLevel = os.Getenv("HASHGRAPH_RPC_LOG_LEVEL")
	}

	if c.OperatorKey == "" {
		c.OperatorKey = os.Getenv("HASHGRAPH_OPERATOR_KEY")
	}

	return
}

// ClientConfig merges the optional config file with the flags.
func (c *_config) ClientConfig() (clientConfig *Config, err error) {
	clientConfig = &Config{}

	if c.ConfigPath != "" {
		if clientConfig, err = LoadConfig(c.ConfigPath); err != nil {
			return
		}
	}

	if c.Network != "" {
		clientConfig.Network = Network(c.Network)
	}

	if c.DatabasePath != "" {
		clientConfig.DatabasePath = c.DatabasePath
	} else if clientConfig.DatabasePath == "" {
		clientConfig.DatabasePath = "hashgraph-rpc.db"
	}

	if c.LogLevel != "" {
		clientConfig.LogLevel = c.LogLevel
	}

	if c.ReceiptPollInterval != "" {
		clientConfig.ReceiptPollInterval = c.ReceiptPollInterval
	}

	if c.MaxAttempts != 0 {
		clientConfig.MaxAttempts = c.MaxAttempts
	}

	// operator flags override the file field by field, keeping its key type
	if c.OperatorID != "" || c.OperatorKey != "" {
		if clientConfig.Operator == nil {
			clientConfig.Operator = &OperatorConfig{}
		}

		if c.OperatorID != "" {
			if clientConfig.Operator.AccountID, err = AccountIDFromString(c.OperatorID); err != nil {
				err = errors.Wrap(err, "invalid operator account id")
				return
			}
		}

		if c.OperatorKey != "" {
			clientConfig.Operator.PrivateKey = c.OperatorKey
		}

		if clientConfig.Operator.AccountID == (AccountID{}) {
			err = errors.Wrap(ErrValidation, "operator account id is required")
			return
		}
	}

	err = clientConfig.Validate()

	return
}

var log = ComponentLog("rpc")

var config *_config

func main() {
	config = &_config{}

	if err := config.Load(); err != nil {
		log.Fatal().Msgf("%+v", err)
	}

	clientConfig, err := config.ClientConfig()
	if err != nil {
		log.Fatal().Msgf("%+v", err)
	}

	client, err := clientConfig.NewClient()
	if err != nil {
		log.Fatal().Msgf("%+v", err)
	}

	log.Info().Msgf("connected to %s with %d nodes", client.Network(), len(client.Nodes()))

	httpServer, err := NewHttpRpcServer(config, client)
	if err != nil {
		log.Fatal().Msgf("%+v", err)
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal().Msgf("%+v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	log.Info().Msg("caught interrupt/terminate signal, attempting graceful shutdown...")

	if err = httpServer.Stop(); err != nil {
		log.Fatal().Msgf("%+v", err)
	}

	if err = client.Close(); err != nil {
		log.Fatal().Msgf("%+v", err)
	}

	log.Info().Msg("graceful shutdown complete")
}
