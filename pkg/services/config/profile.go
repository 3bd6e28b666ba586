package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Profile is the deployment configuration for report generation. The weight
// table ships as explicit configuration rather than code so new flavor
// classes can be weighted without a release.
type Profile struct {
	DBPath             string             `mapstructure:"db_path"`
	TenantsPath        string             `mapstructure:"tenants_path"`
	FlavorClassWeights map[string]float64 `mapstructure:"flavor_class_weights"`
}

func DefaultProfile() *Profile {
	return &Profile{
		DBPath: "instance-atlas.db",
	}
}

func LoadProfile(path string) (*Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("db_path", DefaultProfile().DBPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var profile Profile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}
