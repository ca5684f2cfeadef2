// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		// Log is the logging config
		Log Logger `yaml:"log"`

		// Database is the optional snapshot/task database.
		// Without it the server runs fully in-memory (sessions are lost on restart
		// and the archive task queue is backed by memory instead of SQL).
		Database DatabaseConfig `yaml:"database"`

		// ApiService is the public API service config
		ApiService ApiServiceConfig `yaml:"apiService"`

		// AsyncService is config for the background worker service
		AsyncService AsyncServiceConfig `yaml:"asyncService"`

		// Membership is required for cluster mode of the async service
		Membership *MembershipConfig `yaml:"membership"`

		// Game holds card data locations and session policies
		Game GameConfig `yaml:"game"`

		// Archive configures where finished game replays are stored
		Archive ArchiveConfig `yaml:"archive"`

		// EventFeed optionally publishes game events to a message broker
		EventFeed *EventFeedConfig `yaml:"eventFeed"`
	}

	DatabaseConfig struct {
		// SQL is the SQL database config. Optional, see Config.Database.
		SQL *SQL `yaml:"sql"`
		// Shards is the number of shards that game sessions are partitioned into.
		// Shard ownership decides which async-service node archives/expires a game.
		Shards int `yaml:"shards"`
	}

	ApiServiceConfig struct {
		// HttpServer is the config for starting http.Server
		HttpServer HttpServerConfig `yaml:"httpServer"`
	}

	AsyncServiceConfig struct {
		// Mode is the mode of async service
		Mode AsyncServiceMode `yaml:"mode"`
		// ArchiveTaskQueue is the config for the replay archive task queue
		ArchiveTaskQueue ArchiveTaskQueueConfig `yaml:"archiveTaskQueue"`
		// SessionTimerQueue is the config for the idle-session expiry queue
		SessionTimerQueue SessionTimerQueueConfig `yaml:"sessionTimerQueue"`
		// InternalHttpServer serves the internal notify APIs
		InternalHttpServer HttpServerConfig `yaml:"internalHttpServer"`
		// ClientAddress is the address for API service to call AsyncService's internal API
		ClientAddress string `yaml:"clientAddress"`
	}

	MembershipConfig struct {
		// BindAddress is the host:port memberlist binds on
		BindAddress string `yaml:"bindAddress"`
		// AdvertiseAddress is the host:port advertised to other nodes
		AdvertiseAddress string `yaml:"advertiseAddress"`
		// AdvertiseAddressToJoin is an existing member to join, empty for the first node
		AdvertiseAddressToJoin string `yaml:"advertiseAddressToJoin"`
	}

	GameConfig struct {
		// CardDatabasePath points at the master card database JSON.
		// Empty means the built-in demo set is used.
		CardDatabasePath string `yaml:"cardDatabasePath"`
		// DeckDirectory holds deck JSON files referenced by name on create
		DeckDirectory string `yaml:"deckDirectory"`
		// DefaultDeck is the deck name used when a create request names none
		DefaultDeck string `yaml:"defaultDeck"`
		// IdleSessionTimeout expires sessions with no action for this long
		IdleSessionTimeout time.Duration `yaml:"idleSessionTimeout"`
		// MaxSessions caps concurrently live sessions, 0 means unbounded
		MaxSessions int `yaml:"maxSessions"`
	}

	ArchiveConfig struct {
		// Mode is off, dir, or s3
		Mode ArchiveMode `yaml:"mode"`
		// Dir is the output directory for dir mode
		Dir string `yaml:"dir"`
		// S3 is the bucket config for s3 mode
		S3 *S3ArchiveConfig `yaml:"s3"`
	}

	S3ArchiveConfig struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
		Bucket    string `yaml:"bucket"`
		UseSSL    bool   `yaml:"useSSL"`
	}

	EventFeedConfig struct {
		// PulsarURL is the broker service URL, e.g. pulsar://localhost:6650
		PulsarURL string `yaml:"pulsarURL"`
		// Topic receives one message per game event
		Topic string `yaml:"topic"`
		// ConnectionTimeout for establishing the client, default 30s
		ConnectionTimeout time.Duration `yaml:"connectionTimeout"`
		// OperationTimeout for publish calls, default 30s
		OperationTimeout time.Duration `yaml:"operationTimeout"`
	}

	// HttpServerConfig is the config that will be mapped into http.Server
	HttpServerConfig struct {
		// Address optionally specifies the TCP address for the server to listen on,
		// in the form "host:port". If empty, ":http" (port 80) is used.
		// The service names are defined in RFC 6335 and assigned by IANA.
		// See net.Dial for details of the address format.
		// For more details, see https://blog.cloudflare.com/the-complete-guide-to-golang-net-http-timeouts/
		Address string `yaml:"address"`
		// ReadTimeout is the maximum duration for reading the entire
		// request, including the body. Because ReadTimeout does not
		// let Handlers make per-request decisions on each request body's acceptable
		// deadline or upload rate, most users will prefer to use
		// ReadHeaderTimeout. It is valid to use them both.
		ReadTimeout time.Duration `yaml:"readTimeout"`
		/// WriteTimeout is the maximum duration before timing out
		// writes of the response. It is valid to use them both ReadTimeout and WriteTimeout.
		// For more details, see https://blog.cloudflare.com/the-complete-guide-to-golang-net-http-timeouts/
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		// TLSConfig optionally provides a TLS configuration for use
		// by ServeTLS and ListenAndServeTLS
		TLSConfig *tls.Config `yaml:"tlsConfig"`
		// the rest are less frequently used
		ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
		IdleTimeout       time.Duration `yaml:"idleTimeout"`
		MaxHeaderBytes    int           `yaml:"maxHeaderBytes"`
	}

	ArchiveTaskQueueConfig struct {
		// MaxPollInterval is the maximum interval that the poller will wait between
		// polls. The poller will always poll immediately when receives a notification
		// that there are new tasks. But there is no atomicity/transaction guarantee
		// for the notification. Therefore, polling with this interval is to ensure
		// not missing any tasks. This also means that at worst case, the task could
		// be delayed up to MaxPollInterval.
		// If not specified then the default value of 1 minute is used.
		MaxPollInterval time.Duration `yaml:"maxPollInterval"`
		// CommitInterval is the interval that the poller will use to commit the
		// progress of the queue processing.
		// If not specified then the default value of 1 minute is used.
		CommitInterval time.Duration `yaml:"commitInterval"`
		// IntervalJitter is the jitter for the poll and commit intervals.
		// Default value is 5 seconds.
		IntervalJitter time.Duration `yaml:"intervalJitter"`
		// ProcessorConcurrency is the number of goroutines that will be created to
		// process tasks per async service instance.
		// If not specified then the default value of 10.
		ProcessorConcurrency int `yaml:"processorConcurrency"`
		// ProcessorBufferSize is the size of the buffer for each processor. The
		// processor will stop polling for tasks if the buffer is full and resume
		// polling when it is no longer full.
		// If not specified then the default value of 1000 is used.
		ProcessorBufferSize int `yaml:"processorBufferSize"`
		// PollPageSize is the page size used by the poller to fetch tasks from the store.
		// If not specified then the default value of 1000 is used.
		PollPageSize int32 `yaml:"pollPageSize"`
		// TriggerNotificationBufferSize is the size of the buffer for the channel
		// that receives trigger notifications.
		// If not specified then the default value of 1000 is used.
		TriggerNotificationBufferSize int `yaml:"triggerNotificationBufferSize"`
	}

	SessionTimerQueueConfig struct {
		// MaxPreloadLookAhead defines how far in the future the timer queue will
		// preload expiry deadlines. Together with MaxPreloadPageSize, the preload
		// will load up to MaxPreloadPageSize deadlines, or up to deadlines
		// <= now() + MaxPreloadLookAhead, whichever comes first. New deadlines
		// created inside the window rely on the notifier to be loaded early;
		// a missed notification is repaired by the next preload.
		// Default value is 1 minute.
		MaxPreloadLookAhead time.Duration `yaml:"maxPreloadLookAhead"`
		// MaxPreloadPageSize is the maximum number of deadlines a preload will load.
		// If not specified then the default value of 1000 is used.
		MaxPreloadPageSize int32 `yaml:"maxPreloadPageSize"`
		// IntervalJitter is the jitter for the MaxPreloadLookAhead.
		// Default value is 10 seconds.
		IntervalJitter time.Duration `yaml:"intervalJitter"`
		// ProcessorConcurrency is the number of goroutines processing fired
		// deadlines. If not specified then the default value of 3.
		ProcessorConcurrency int `yaml:"processorConcurrency"`
		// ProcessorBufferSize is the size of the buffer for the processor.
		// If not specified then the default value of 1000 is used.
		ProcessorBufferSize int `yaml:"processorBufferSize"`
		// TriggerNotificationBufferSize is the size of the buffer for the channel
		// that receives trigger notifications.
		// If not specified then the default value of 1000 is used.
		TriggerNotificationBufferSize int `yaml:"triggerNotificationBufferSize"`
	}

	AsyncServiceMode string

	ArchiveMode string
)

const (
	// AsyncServiceModeStandalone means there is only one node for async service
	AsyncServiceModeStandalone AsyncServiceMode = "standalone"
	// AsyncServiceModeCluster means all the nodes of async service form a
	// consistent hashing ring, which is used for shard ownership management
	AsyncServiceModeCluster AsyncServiceMode = "consistent-hashing-cluster"

	ArchiveModeOff ArchiveMode = "off"
	ArchiveModeDir ArchiveMode = "dir"
	ArchiveModeS3  ArchiveMode = "s3"
)

const (
	// EnvPort overrides the port of ApiService.HttpServer.Address.
	// Deployment contract: the container runtime sets PORT and the server must
	// listen on 0.0.0.0 at that port, defaulting to 8080.
	EnvPort = "PORT"

	DefaultApiAddress      = "0.0.0.0:8080"
	DefaultInternalAddress = "127.0.0.1:8701"
)

// NewConfig returns a new decoded Config struct
func NewConfig(configPath string) (*Config, error) {
	log.Printf("Loading configFile=%v\n", configPath)

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)

	if err := d.Decode(&config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns the config used when no config file is given:
// a fully in-memory standalone server with the built-in demo card set.
func DefaultConfig() *Config {
	return &Config{
		Log: Logger{
			Level:    "info",
			Encoding: "json",
			Stdout:   true,
		},
		ApiService: ApiServiceConfig{
			HttpServer: HttpServerConfig{Address: DefaultApiAddress},
		},
		AsyncService: AsyncServiceConfig{
			Mode:               AsyncServiceModeStandalone,
			InternalHttpServer: HttpServerConfig{Address: DefaultInternalAddress},
		},
		Archive: ArchiveConfig{Mode: ArchiveModeOff},
	}
}

func (c *Config) ValidateAndSetDefaults() error {
	if c.Database.SQL != nil {
		sql := c.Database.SQL
		if anyAbsent(sql.DatabaseName, sql.DBExtensionName) {
			return fmt.Errorf("some required configs are missing: sql.DatabaseName, sql.DBExtensionName")
		}
	}
	if c.Database.Shards == 0 {
		c.Database.Shards = 1
	}
	if c.ApiService.HttpServer.Address == "" {
		c.ApiService.HttpServer.Address = DefaultApiAddress
	}
	if c.AsyncService.Mode == "" {
		c.AsyncService.Mode = AsyncServiceModeStandalone
	}
	if c.AsyncService.Mode != AsyncServiceModeStandalone && c.AsyncService.Mode != AsyncServiceModeCluster {
		return fmt.Errorf("unknown async service mode %v", c.AsyncService.Mode)
	}
	if c.AsyncService.Mode == AsyncServiceModeCluster && c.Membership == nil {
		return fmt.Errorf("membership config is required for cluster mode")
	}
	archiveTaskQConfig := &c.AsyncService.ArchiveTaskQueue
	if archiveTaskQConfig.MaxPollInterval == 0 {
		archiveTaskQConfig.MaxPollInterval = time.Minute
	}
	if archiveTaskQConfig.CommitInterval == 0 {
		archiveTaskQConfig.CommitInterval = time.Minute
	}
	if archiveTaskQConfig.IntervalJitter == 0 {
		archiveTaskQConfig.IntervalJitter = time.Second * 5
	}
	if archiveTaskQConfig.ProcessorConcurrency == 0 {
		archiveTaskQConfig.ProcessorConcurrency = 10
	}
	if archiveTaskQConfig.ProcessorBufferSize == 0 {
		archiveTaskQConfig.ProcessorBufferSize = 1000
	}
	if archiveTaskQConfig.PollPageSize == 0 {
		archiveTaskQConfig.PollPageSize = 1000
	}
	if archiveTaskQConfig.TriggerNotificationBufferSize == 0 {
		archiveTaskQConfig.TriggerNotificationBufferSize = 1000
	}
	sessionTimerQConfig := &c.AsyncService.SessionTimerQueue
	if sessionTimerQConfig.MaxPreloadLookAhead == 0 {
		sessionTimerQConfig.MaxPreloadLookAhead = time.Minute
	}
	if sessionTimerQConfig.MaxPreloadPageSize == 0 {
		sessionTimerQConfig.MaxPreloadPageSize = 1000
	}
	if sessionTimerQConfig.IntervalJitter == 0 {
		sessionTimerQConfig.IntervalJitter = time.Second * 10
	}
	if sessionTimerQConfig.ProcessorConcurrency == 0 {
		sessionTimerQConfig.ProcessorConcurrency = 3
	}
	if sessionTimerQConfig.ProcessorBufferSize == 0 {
		sessionTimerQConfig.ProcessorBufferSize = 1000
	}
	if sessionTimerQConfig.TriggerNotificationBufferSize == 0 {
		sessionTimerQConfig.TriggerNotificationBufferSize = 1000
	}
	if c.AsyncService.InternalHttpServer.Address == "" {
		c.AsyncService.InternalHttpServer.Address = DefaultInternalAddress
	}
	if c.AsyncService.ClientAddress == "" {
		c.AsyncService.ClientAddress = "http://" + c.AsyncService.InternalHttpServer.Address
	}
	if c.Game.IdleSessionTimeout == 0 {
		c.Game.IdleSessionTimeout = 2 * time.Hour
	}
	if c.Archive.Mode == "" {
		c.Archive.Mode = ArchiveModeOff
	}
	switch c.Archive.Mode {
	case ArchiveModeOff:
	case ArchiveModeDir:
		if c.Archive.Dir == "" {
			return fmt.Errorf("archive.dir is required for dir mode")
		}
	case ArchiveModeS3:
		if c.Archive.S3 == nil || anyAbsent(c.Archive.S3.Endpoint, c.Archive.S3.Bucket) {
			return fmt.Errorf("archive.s3.endpoint and archive.s3.bucket are required for s3 mode")
		}
	default:
		return fmt.Errorf("unknown archive mode %v", c.Archive.Mode)
	}
	if c.EventFeed != nil {
		if anyAbsent(c.EventFeed.PulsarURL, c.EventFeed.Topic) {
			return fmt.Errorf("eventFeed.pulsarURL and eventFeed.topic are required when eventFeed is set")
		}
		if c.EventFeed.ConnectionTimeout == 0 {
			c.EventFeed.ConnectionTimeout = 30 * time.Second
		}
		if c.EventFeed.OperationTimeout == 0 {
			c.EventFeed.OperationTimeout = 30 * time.Second
		}
	}
	return nil
}

// ApplyEnvOverrides applies the deployment environment contract on top of the
// loaded config. Currently only PORT is honored.
func (c *Config) ApplyEnvOverrides() error {
	portStr := os.Getenv(EnvPort)
	if portStr == "" {
		return nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid %s value %q", EnvPort, portStr)
	}
	c.ApiService.HttpServer.Address = fmt.Sprintf("0.0.0.0:%d", port)
	return nil
}

func anyAbsent(strs ...string) bool {
	for _, s := range strs {
		if s == "" {
			return true
		}
	}
	return false
}

// String converts the config object into a string
func (c *Config) String() string {
	out, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		panic(err)
	}
	return string(out)
}
