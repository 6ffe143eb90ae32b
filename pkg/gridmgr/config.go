package gridmgr

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/serverlessresearch/gridkit/pkg/grid"
	"github.com/serverlessresearch/gridkit/pkg/s3store"
	"github.com/serverlessresearch/gridkit/pkg/treemap"
	"github.com/spf13/viper"
)

const (
	UserEnv     = "GRIDKIT_USER"
	PasswordEnv = "GRIDKIT_PASSWORD"
)

// Config is the fully resolved session configuration. It is built once by
// LoadConfig and never modified afterwards.
type Config struct {
	Host string
	Port int
	Zone string

	User     string
	Password string

	// Which grid.Store implementation to use: "s3" or "local"
	Store      string
	PrefixMode treemap.PrefixMode

	S3        s3store.Config
	LocalRoot string
}

// HomeCollection is the user's default remote location.
func (c Config) HomeCollection() string {
	return grid.HomeCollection(c.Zone, c.User)
}

func setDefaults(v *viper.Viper) {
	// Order of precedence: ENV, gridkit.yaml, defaults
	v.SetDefault("host", "data.iplantcollaborative.org")
	v.SetDefault("port", 1247)
	v.SetDefault("zone", "iplant")
	v.SetDefault("store", "s3")
	v.SetDefault("upload.prefix-match", "segment")

	v.SetDefault("service.s3.region", "us-west-2")
	v.BindEnv("service.s3.region", "AWS_DEFAULT_REGION")
	v.SetDefault("service.s3.path-style", true)
	v.SetDefault("service.s3.disable-ssl", false)

	v.SetDefault("service.local.root", "./grid")

	v.BindEnv("auth.user", UserEnv)
	v.BindEnv("auth.password", PasswordEnv)
}

// LoadConfig copies everything the session needs out of v. Missing
// credentials are reported as a *grid.ConfigurationError before anything
// else is looked at.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		User:     v.GetString("auth.user"),
		Password: v.GetString("auth.password"),
	}
	if cfg.User == "" {
		return Config{}, &grid.ConfigurationError{Key: UserEnv}
	}
	if cfg.Password == "" {
		return Config{}, &grid.ConfigurationError{Key: PasswordEnv}
	}

	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.Zone = v.GetString("zone")
	if cfg.Zone == "" {
		return Config{}, &grid.ConfigurationError{Key: "zone", Reason: "must not be empty"}
	}

	cfg.Store = v.GetString("store")
	switch cfg.Store {
	case "s3", "local":
	default:
		return Config{}, &grid.ConfigurationError{Key: "store", Reason: fmt.Sprintf("unrecognized store %q", cfg.Store)}
	}

	mode, err := treemap.ParsePrefixMode(v.GetString("upload.prefix-match"))
	if err != nil {
		return Config{}, &grid.ConfigurationError{Key: "upload.prefix-match", Reason: err.Error()}
	}
	cfg.PrefixMode = mode

	endpoint := v.GetString("service.s3.endpoint")
	if endpoint == "" && cfg.Host != "" {
		endpoint = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}
	cfg.S3 = s3store.Config{
		Endpoint:   endpoint,
		Region:     v.GetString("service.s3.region"),
		PathStyle:  v.GetBool("service.s3.path-style"),
		DisableSSL: v.GetBool("service.s3.disable-ssl"),
		User:       cfg.User,
		Password:   cfg.Password,
	}
	cfg.LocalRoot = v.GetString("service.local.root")

	return cfg, nil
}

func readConfigFile(v *viper.Viper, cfgPath *string) error {
	if cfgPath != nil {
		// Use config file from the flag.
		v.SetConfigFile(*cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "Failed to load config "+*cfgPath)
		}
		return nil
	}

	// default search path for config is ./configs/gridkit.* (* can be json, yaml, etc)
	v.AddConfigPath("./configs")
	v.SetConfigName("gridkit")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrap(err, "Failed to load config")
	}
	return nil
}
