package config

import (
	"github.com/spf13/viper"
)

// newEnv returns a viper instance reading straight from the process environment.
// Empty variables count as unset so defaults apply.
func newEnv(defaults map[string]any) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}
