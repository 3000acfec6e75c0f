package ovh

import (
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Configuration resolution order: environment variables win, then the first
// readable config file fills the blanks. File format:
//
//	[default]
//	endpoint=ovh-eu
//
//	[ovh-eu]
//	application_key=...
//	application_secret=...
//	consumer_key=...
//
// The section name is the endpoint value (alias or raw URL).

// configPaths is a var so tests can point lookup at a temp dir.
var configPaths = func() []string {
	paths := []string{"./ovh.conf"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ovh.conf"))
	}
	return append(paths, "/etc/ovh.conf")
}

type fileConfig struct {
	Endpoint    string
	AppKey      string
	AppSecret   string
	ConsumerKey string
	Path        string // file the values came from, empty if none found
}

func loadFileConfig() fileConfig {
	var fc fileConfig
	for _, p := range configPaths() {
		f, err := ini.LoadSources(ini.LoadOptions{Loose: false}, p)
		if err != nil {
			continue
		}
		fc.Path = p
		fc.Endpoint = f.Section("default").Key("endpoint").String()
		if fc.Endpoint != "" {
			sec := f.Section(fc.Endpoint)
			fc.AppKey = sec.Key("application_key").String()
			fc.AppSecret = sec.Key("application_secret").String()
			fc.ConsumerKey = sec.Key("consumer_key").String()
		}
		return fc
	}
	return fc
}

// NewDefaultClient resolves credentials from OVH_ENDPOINT,
// OVH_APPLICATION_KEY, OVH_APPLICATION_SECRET and OVH_CONSUMER_KEY, falling
// back to the config file for anything unset. A consumer key found this way
// puts the client straight into authenticated mode.
func NewDefaultClient() (*Client, error) {
	return newDefaultClient("")
}

// NewDefaultClientFor is NewDefaultClient with the endpoint forced, for
// callers carrying their own override (the CLI's --endpoint flag). An empty
// endpoint falls back to the usual resolution.
func NewDefaultClientFor(endpoint string) (*Client, error) {
	return newDefaultClient(endpoint)
}

func newDefaultClient(endpoint string) (*Client, error) {
	if endpoint == "" {
		endpoint = os.Getenv("OVH_ENDPOINT")
	}
	appKey := os.Getenv("OVH_APPLICATION_KEY")
	appSecret := os.Getenv("OVH_APPLICATION_SECRET")
	consumerKey := os.Getenv("OVH_CONSUMER_KEY")

	fc := loadFileConfig()
	if endpoint == "" {
		endpoint = fc.Endpoint
	}
	if appKey == "" {
		appKey = fc.AppKey
	}
	if appSecret == "" {
		appSecret = fc.AppSecret
	}
	if consumerKey == "" {
		consumerKey = fc.ConsumerKey
	}
	if endpoint == "" {
		endpoint = "ovh-eu"
	}

	c, err := NewClient(endpoint, appKey, appSecret)
	if err != nil {
		return nil, err
	}
	if consumerKey != "" {
		c.SetConsumerKey(consumerKey)
	}
	return c, nil
}

// SaveConsumerKey persists a validated consumer key into the endpoint's
// section of the config file at path, creating the file when absent. The
// login flow calls this so later runs start authenticated.
func SaveConsumerKey(path, endpoint, consumerKey string) error {
	f, err := ini.LooseLoad(path)
	if err != nil {
		return err
	}
	if f.Section("default").Key("endpoint").String() == "" {
		f.Section("default").Key("endpoint").SetValue(endpoint)
	}
	f.Section(endpoint).Key("consumer_key").SetValue(consumerKey)
	return f.SaveTo(path)
}

// DefaultEndpointName resolves the endpoint the way NewDefaultClient does
// (environment, then config file, then ovh-eu) without building a client.
// The CLI uses it to know which config section a consumer key belongs to.
func DefaultEndpointName() string {
	if ep := os.Getenv("OVH_ENDPOINT"); ep != "" {
		return ep
	}
	if ep := loadFileConfig().Endpoint; ep != "" {
		return ep
	}
	return "ovh-eu"
}

// DefaultConfigPath is where SaveConsumerKey writes when the user has no
// config file yet.
func DefaultConfigPath() string {
	fc := loadFileConfig()
	if fc.Path != "" {
		return fc.Path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".ovh.conf")
	}
	return "./ovh.conf"
}
